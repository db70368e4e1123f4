package model

// Country is one entry of the supported-country reference set. Only
// countries present in this table can host an imported organisation.
type Country struct {
	ID     int64   `json:"id"`
	Slug   string  `json:"slug"`
	Name   string  `json:"name"`
	Alpha2 string  `json:"alpha2"`
	Alpha3 string  `json:"alpha3"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}
