package mapper

// Translation between backend row shapes (snake_case columns) and the
// client-facing domain shape (camelCase fields), driven by one declarative
// field table per entity instead of per-service hand mapping.

// Field declares one column/field pair. Default is substituted when the
// column is absent or nil on read.
type Field struct {
	Column  string
	Name    string
	Default interface{}
}

type Mapping []Field

// ToDomain translates a backend row into the camelCase domain shape,
// substituting defaults for absent optional columns.
func (m Mapping) ToDomain(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for _, f := range m {
		v, ok := row[f.Column]
		if !ok || v == nil {
			if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}
		out[f.Name] = v
	}
	return out
}

// ToRow translates a domain shape back into the backend row shape. Fields
// absent from the domain map are omitted, so partial updates stay partial.
func (m Mapping) ToRow(domain map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for _, f := range m {
		if v, ok := domain[f.Name]; ok && v != nil {
			out[f.Column] = v
		}
	}
	return out
}

// MarketFields is the market entity table. Visit frequency defaults to 12
// when a row omits it.
var MarketFields = Mapping{
	{Column: "name", Name: "name"},
	{Column: "chain", Name: "chain"},
	{Column: "street", Name: "street"},
	{Column: "postal_code", Name: "postalCode"},
	{Column: "city", Name: "city"},
	{Column: "gebietsleiter_id", Name: "gebietsleiterId"},
	{Column: "latitude", Name: "latitude"},
	{Column: "longitude", Name: "longitude"},
	{Column: "last_visit_date", Name: "lastVisitDate"},
	{Column: "visit_frequency", Name: "visitFrequency", Default: 12},
	{Column: "current_visits", Name: "currentVisits", Default: 0},
	{Column: "completed", Name: "completed", Default: false},
}

// ProductFields is the product entity table.
var ProductFields = Mapping{
	{Column: "name", Name: "name"},
	{Column: "department", Name: "department"},
	{Column: "kind", Name: "kind", Default: "item"},
	{Column: "size", Name: "size"},
	{Column: "unit_price", Name: "unitPrice", Default: 0.0},
	{Column: "order_number", Name: "orderNumber"},
}

// FoldCoordinates nests flat latitude/longitude into a coordinates object,
// only when both are present. The flat keys are removed either way.
func FoldCoordinates(domain map[string]interface{}) {
	lat, latOK := domain["latitude"]
	lng, lngOK := domain["longitude"]
	delete(domain, "latitude")
	delete(domain, "longitude")
	if latOK && lngOK && lat != nil && lng != nil {
		domain["coordinates"] = map[string]interface{}{
			"latitude":  lat,
			"longitude": lng,
		}
	}
}

// ExplodeCoordinates flattens a coordinates object back into latitude and
// longitude keys for the row shape.
func ExplodeCoordinates(domain map[string]interface{}) {
	coords, ok := domain["coordinates"].(map[string]interface{})
	delete(domain, "coordinates")
	if !ok {
		return
	}
	domain["latitude"] = coords["latitude"]
	domain["longitude"] = coords["longitude"]
}
