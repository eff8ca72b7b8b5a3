//go:build integration

package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("STRUCTBOARD_MONGO_URI")
	if uri == "" {
		t.Skip("STRUCTBOARD_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := fmt.Sprintf("structboard_test_%d", time.Now().UnixNano())
	s, err := OpenMongo(ctx, uri, db)
	if err != nil {
		t.Fatalf("OpenMongo: %v", err)
	}
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		s.Close()
	}()
	testStore(t, s)
}
