// Package domain defines the core types, interfaces, and errors shared by the
// QueryPulse console and CLI.
package domain

import (
	"math"
	"time"
)

// QueryStatus classifies a captured query relative to the slow-query threshold.
type QueryStatus string

const (
	QueryStatusNormal QueryStatus = "NORMAL"
	QueryStatusSlow   QueryStatus = "SLOW"
)

// QueryRecord is a single captured query execution as reported by the
// monitoring API. Records arrive read-only; the console never mutates them.
type QueryRecord struct {
	ID              string      `json:"id"`
	SQLText         string      `json:"query_text"`
	ExecutionTimeMS float64     `json:"execution_time_ms"`
	Status          QueryStatus `json:"status"`
	Timestamp       time.Time   `json:"timestamp"`
}

// Valid reports whether the record is well formed. The backend occasionally
// emits partial rows during ingestion; those are skipped, not surfaced.
func (q QueryRecord) Valid() bool {
	if q.Timestamp.IsZero() {
		return false
	}
	if q.ExecutionTimeMS < 0 || math.IsNaN(q.ExecutionTimeMS) {
		return false
	}
	return true
}

// ConnectionType is the kind of database a connection monitors.
type ConnectionType string

const (
	ConnectionPostgres ConnectionType = "postgres"
	ConnectionMySQL    ConnectionType = "mysql"
	ConnectionMongoDB  ConnectionType = "mongodb"
)

// Connection is a monitored database registered with the backend.
type Connection struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Type             ConnectionType `json:"db_type"`
	Host             string         `json:"host"`
	Port             int            `json:"port"`
	DatabaseName     string         `json:"database_name"`
	IsActive         bool           `json:"is_active"`
	ConnectionStatus string         `json:"connection_status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// NewConnection is the payload for registering a database. Credentials pass
// through to the backend and are never persisted client-side.
type NewConnection struct {
	Name         string         `json:"name"`
	Type         ConnectionType `json:"db_type"`
	Host         string         `json:"host"`
	Port         int            `json:"port"`
	DatabaseName string         `json:"database_name"`
	Username     string         `json:"username"`
	Password     string         `json:"password"`
}

// User is the authenticated account profile.
type User struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	FullName            string `json:"full_name"`
	PlanTier            string `json:"plan_tier"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
}

// RecommendationStatus tracks the lifecycle of an optimization suggestion.
type RecommendationStatus string

const (
	RecommendationPending   RecommendationStatus = "pending"
	RecommendationApplied   RecommendationStatus = "applied"
	RecommendationDismissed RecommendationStatus = "dismissed"
)

// Recommendation is a backend-generated optimization suggestion for a query.
type Recommendation struct {
	ID              string               `json:"id"`
	QueryID         string               `json:"query_id"`
	Type            string               `json:"type"`
	Description     string               `json:"description"`
	EstimatedImpact string               `json:"estimated_impact"`
	Confidence      float64              `json:"confidence"`
	Status          RecommendationStatus `json:"status"`
}

// QueryDetail is the full view of one query: the record plus execution
// statistics and any recommendations the analyzer produced.
type QueryDetail struct {
	QueryRecord
	ExecutionCount  int              `json:"execution_count"`
	AvgTimeMS       float64          `json:"avg_time_ms"`
	P95TimeMS       float64          `json:"p95_time_ms"`
	Recommendations []Recommendation `json:"recommendations"`
}

// MetricPoint is one bucket of a dashboard time series.
type MetricPoint struct {
	Timestamp          time.Time `json:"timestamp"`
	AvgExecutionTimeMS float64   `json:"avg_execution_time_ms"`
	QueryCount         int       `json:"query_count"`
	SlowQueryCount     int       `json:"slow_query_count"`
}

// MetricsSeries is the dashboard summary for one database over a time range.
type MetricsSeries struct {
	DatabaseID         string        `json:"database_id"`
	TimeRange          string        `json:"time_range"`
	TotalQueries       int           `json:"total_queries"`
	SlowQueries        int           `json:"slow_queries"`
	AvgExecutionTimeMS float64       `json:"avg_execution_time_ms"`
	Points             []MetricPoint `json:"points"`
}

// QueryPattern groups queries sharing a normalized fingerprint.
type QueryPattern struct {
	Pattern     string  `json:"pattern"`
	Count       int     `json:"count"`
	AvgTimeMS   float64 `json:"avg_time_ms"`
	TotalTimeMS float64 `json:"total_time_ms"`
}

// PerformanceTrend flags a query whose latency profile shifted between
// analysis windows.
type PerformanceTrend struct {
	QueryID       string  `json:"query_id"`
	QueryText     string  `json:"query_text"`
	Direction     string  `json:"direction"`
	ChangePercent float64 `json:"change_percent"`
	CurrentAvgMS  float64 `json:"current_avg_ms"`
	PreviousAvgMS float64 `json:"previous_avg_ms"`
}
