package model

import "time"

// AdminUser is one row of the administrative user roster.
type AdminUser struct {
	ID            string
	Name          string
	Email         string
	LinkCount     int
	CategoryCount int
	CreatedAt     time.Time
	LastUpdated   time.Time
}

// MonthlyMetric is one bar of the per-month usage chart.
type MonthlyMetric struct {
	Month      string // raw month key, e.g. "2025-01"
	Label      string // display label, e.g. "Jan 2025"
	Links      int
	Categories int
	Users      int
	Total      int
	IsCurrent  bool
}
