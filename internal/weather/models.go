package weather

import "time"

// Sample is one timestamped reading from the forecast time series.
// Wind speed is converted from m/s to km/h and cloudiness rounded to whole
// percent on ingest, matching what the API reports to clients.
type Sample struct {
	Time          time.Time `json:"forecast_time"`
	TemperatureC  float64   `json:"temperature"`
	CloudinessPct int       `json:"cloudiness"`
	WindSpeedKmh  int       `json:"wind_speed"`
	WindDirection string    `json:"wind_direction"`
	RainMm        float64   `json:"rain"`
}
