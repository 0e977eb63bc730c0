package testutil

import (
	"os"
	"testing"
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
}

// NewTestEnv reads the integration-test environment. Tests call RequireMongo
// first, so suites are skipped rather than failed on machines without a
// database.
func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     os.Getenv("TEST_MONGO_URI"),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
	}
}

// RequireMongo skips the test unless TEST_MONGO_URI points at a reachable
// instance.
func (e *TestEnv) RequireMongo(t *testing.T) {
	t.Helper()
	if e.MongoURI == "" {
		t.Skip("TEST_MONGO_URI not set; skipping integration test")
	}
}

func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	e.RequireMongo(t)
	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)
	return mongo
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
