package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/Lllllllleong/tmpcompliance/internal/models"
)

// Recorder keeps an audit record of each analysis. Failures to record are
// logged by the analyzer and never fail the analysis itself.
type Recorder interface {
	Start(ctx context.Context, id string, rec models.Analysis) error
	MarkRecognizing(ctx context.Context, id string, pageCount int) error
	Complete(ctx context.Context, id string, res models.ClassificationResult) error
	Fail(ctx context.Context, id, details string) error
}

// NopRecorder discards all records.
type NopRecorder struct{}

func (NopRecorder) Start(context.Context, string, models.Analysis) error {
	return nil
}

func (NopRecorder) MarkRecognizing(context.Context, string, int) error {
	return nil
}

func (NopRecorder) Complete(context.Context, string, models.ClassificationResult) error {
	return nil
}

func (NopRecorder) Fail(context.Context, string, string) error {
	return nil
}

// FirestoreRecorder stores one document per analysis, keyed by analysis ID.
type FirestoreRecorder struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreRecorder writes records to the given collection.
func NewFirestoreRecorder(client *firestore.Client, collection string) *FirestoreRecorder {
	return &FirestoreRecorder{client: client, collection: collection}
}

func (r *FirestoreRecorder) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(id)
}

func (r *FirestoreRecorder) Start(ctx context.Context, id string, rec models.Analysis) error {
	if _, err := r.doc(id).Set(ctx, rec); err != nil {
		return fmt.Errorf("failed to create analysis record: %w", err)
	}
	return nil
}

func (r *FirestoreRecorder) MarkRecognizing(ctx context.Context, id string, pageCount int) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "status", Value: models.StatusRecognizing},
		{Path: "pageCount", Value: pageCount},
	})
}

func (r *FirestoreRecorder) Complete(ctx context.Context, id string, res models.ClassificationResult) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "status", Value: models.StatusComplete},
		{Path: "isTmp", Value: res.IsTMP},
		{Path: "matched", Value: res.Matched},
		{Path: "score", Value: res.Score},
		{Path: "completedAt", Value: time.Now()},
	})
}

func (r *FirestoreRecorder) Fail(ctx context.Context, id, details string) error {
	updates := []firestore.Update{
		{Path: "status", Value: models.StatusFailed},
	}
	if details != "" {
		updates = append(updates, firestore.Update{Path: "errorDetails", Value: details})
	}
	return r.update(ctx, id, updates)
}

func (r *FirestoreRecorder) update(ctx context.Context, id string, updates []firestore.Update) error {
	if _, err := r.doc(id).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update analysis record %s: %w", id, err)
	}
	return nil
}
