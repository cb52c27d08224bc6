package database

import (
	"context"

	"cloud.google.com/go/firestore"
)

// Client is the document-store gateway used by the firestore repositories.
type Client interface {
	GetDoc(ctx context.Context, docRef *firestore.DocumentRef) (*firestore.DocumentSnapshot, error)
	IterDocs(ctx context.Context, coll *firestore.CollectionRef, fn func(*firestore.DocumentSnapshot) error) error
	SetDoc(ctx context.Context, docRef *firestore.DocumentRef, data interface{}, opts ...firestore.SetOption) (_ *firestore.WriteResult, err error)
	Collection(path string) *firestore.CollectionRef
}
