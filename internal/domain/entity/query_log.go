package entity

import "time"

// QueryLogEntry records one airline detection attempt
type QueryLogEntry struct {
	ID           string    `bson:"_id,omitempty" json:"id,omitempty"`
	QueryText    string    `bson:"queryText" json:"query_text"`
	DetectedCode string    `bson:"detectedCode,omitempty" json:"detected_code,omitempty"`
	DetectedName string    `bson:"detectedName,omitempty" json:"detected_name,omitempty"`
	Success      bool      `bson:"success" json:"success"`
	Timestamp    time.Time `bson:"timestamp" json:"timestamp"`
}

// QueryCount is a query text with its occurrence count
type QueryCount struct {
	QueryText string `bson:"_id" json:"query_text"`
	Count     int64  `bson:"count" json:"count"`
}

// QueryStats summarizes the detection log
type QueryStats struct {
	TotalQueries      int64          `json:"total_queries"`
	SuccessfulQueries int64          `json:"successful_queries"`
	SuccessRate       float64        `json:"success_rate"`
	CommonQueries     []QueryCount   `json:"common_queries"`
	PopularAirlines   []AirlineUsage `json:"popular_airlines"`
}
