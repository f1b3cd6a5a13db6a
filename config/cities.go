package config

import "strings"

// City represents a supported city with its map center.
type City struct {
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Center    []float64 `json:"center"` // [latitude, longitude]
	ZoomLevel int       `json:"zoom_level"`
	Popular   bool      `json:"popular"`
}

// SupportedCities is the list of cities the application serves.
var SupportedCities = []City{
	{Name: "Roma", Country: "IT", Center: []float64{41.9028, 12.4964}, ZoomLevel: 12, Popular: true},
	{Name: "Milano", Country: "IT", Center: []float64{45.4642, 9.1900}, ZoomLevel: 12, Popular: true},
	{Name: "Napoli", Country: "IT", Center: []float64{40.8518, 14.2681}, ZoomLevel: 13, Popular: true},
	{Name: "Torino", Country: "IT", Center: []float64{45.0703, 7.6869}, ZoomLevel: 13, Popular: true},
	{Name: "Palermo", Country: "IT", Center: []float64{38.1157, 13.3615}, ZoomLevel: 13, Popular: true},
	{Name: "Genova", Country: "IT", Center: []float64{44.4056, 8.9463}, ZoomLevel: 13, Popular: true},
	{Name: "Bologna", Country: "IT", Center: []float64{44.4949, 11.3426}, ZoomLevel: 13, Popular: true},
	{Name: "Firenze", Country: "IT", Center: []float64{43.7696, 11.2558}, ZoomLevel: 13, Popular: true},
	{Name: "Bari", Country: "IT", Center: []float64{41.1171, 16.8719}, ZoomLevel: 13, Popular: true},
	{Name: "Catania", Country: "IT", Center: []float64{37.5079, 15.0830}, ZoomLevel: 13, Popular: true},
	{Name: "Venezia", Country: "IT", Center: []float64{45.4408, 12.3155}, ZoomLevel: 13, Popular: true},
	{Name: "Verona", Country: "IT", Center: []float64{45.4384, 10.9916}, ZoomLevel: 13, Popular: true},
	{Name: "Padova", Country: "IT", Center: []float64{45.4064, 11.8768}, ZoomLevel: 13, Popular: false},
	{Name: "Trieste", Country: "IT", Center: []float64{45.6495, 13.7768}, ZoomLevel: 13, Popular: false},
	{Name: "Pisa", Country: "IT", Center: []float64{43.7228, 10.4017}, ZoomLevel: 13, Popular: true},
	{Name: "Madrid", Country: "ES", Center: []float64{40.4168, -3.7038}, ZoomLevel: 12, Popular: true},
	{Name: "Barcelona", Country: "ES", Center: []float64{41.3851, 2.1734}, ZoomLevel: 12, Popular: true},
	{Name: "Valencia", Country: "ES", Center: []float64{39.4699, -0.3763}, ZoomLevel: 13, Popular: true},
	{Name: "Sevilla", Country: "ES", Center: []float64{37.3891, -5.9845}, ZoomLevel: 13, Popular: true},
	{Name: "Bilbao", Country: "ES", Center: []float64{43.2630, -2.9350}, ZoomLevel: 13, Popular: true},
}

// GetCityNames returns a list of supported city names.
func GetCityNames() []string {
	names := make([]string, len(SupportedCities))
	for i, city := range SupportedCities {
		names[i] = city.Name
	}
	return names
}

// GetCityByName returns a city configuration by name, case-insensitive.
func GetCityByName(name string) *City {
	for _, city := range SupportedCities {
		if strings.EqualFold(city.Name, name) {
			return &city
		}
	}
	return nil
}

// CityCenter returns the center coordinates for a known city; ok is false
// for cities outside the registry.
func CityCenter(name string) (lat, lon float64, ok bool) {
	city := GetCityByName(name)
	if city == nil || len(city.Center) != 2 {
		return 0, 0, false
	}
	return city.Center[0], city.Center[1], true
}
