package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertrieb-backend/internal/mapper"
)

func TestParseCSVSemicolonDelimited(t *testing.T) {
	// German-locale export: semicolons and decimal commas.
	csv := "Name;Chain;postal_code;City;visitFrequency;latitude;longitude\n" +
		"Edeka Musterstadt;Edeka;4020;Linz;6;48,30;14,28\n" +
		";;;;;;\n" +
		"Billa Plus Wien;Billa;1100;Wien;;;\n"

	rows, err := ParseCSV(strings.NewReader(csv), mapper.MarketFields)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Edeka Musterstadt", rows[0]["name"])
	// Numeric-looking cells coerce to numbers; postal codes are
	// re-stringified downstream.
	assert.Equal(t, 4020, rows[0]["postalCode"])
	assert.Equal(t, 6, rows[0]["visitFrequency"])
	assert.InDelta(t, 48.30, rows[0]["latitude"].(float64), 0.001)

	// Blank cells stay absent so field-table defaults apply downstream.
	_, ok := rows[1]["visitFrequency"]
	assert.False(t, ok)
	_, ok = rows[1]["latitude"]
	assert.False(t, ok)
}

func TestParseCSVCommaDelimited(t *testing.T) {
	csv := "name,department,kind,unit_price\n" +
		"Schoko-Riegel,food,item,1.99\n"

	rows, err := ParseCSV(strings.NewReader(csv), mapper.ProductFields)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "food", rows[0]["department"])
	assert.InDelta(t, 1.99, rows[0]["unitPrice"].(float64), 0.001)
}

func TestParseCSVUnknownColumnsIgnored(t *testing.T) {
	csv := "name;Bemerkung;city\nSpar Graz;irrelevant;Graz\n"

	rows, err := ParseCSV(strings.NewReader(csv), mapper.MarketFields)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Spar Graz", rows[0]["name"])
	assert.Equal(t, "Graz", rows[0]["city"])
	assert.NotContains(t, rows[0], "Bemerkung")
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""), mapper.MarketFields)
	require.ErrorIs(t, err, ErrNoHeader)
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 12, coerce("12"))
	assert.Equal(t, 1.99, coerce("1.99"))
	assert.Equal(t, 48.3, coerce("48,30"))
	assert.Equal(t, "4020a", coerce("4020a"))
	assert.Equal(t, "Wien", coerce("Wien"))
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', detectDelimiter([]byte("a;b;c\n1;2;3")))
	assert.Equal(t, ',', detectDelimiter([]byte("a,b,c\n1,2,3")))
	// Mixed header with more commas stays comma.
	assert.Equal(t, ',', detectDelimiter([]byte("a,b;c,d\n")))
}
