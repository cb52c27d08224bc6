package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	ierr "hema-storefront/internal/errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreClient struct {
	*firestore.Client
	writeTimeout time.Duration
}

var _ Client = FirestoreClient{}

func New(client *firestore.Client, writeTimeout time.Duration) FirestoreClient {
	if writeTimeout <= 0 {
		writeTimeout = time.Second * 120
	}
	return FirestoreClient{
		Client:       client,
		writeTimeout: writeTimeout,
	}
}

// IterDocs iterates over all the docs of the given coll and stops at the first error returned by fn.
func (c FirestoreClient) IterDocs(ctx context.Context, coll *firestore.CollectionRef, fn func(*firestore.DocumentSnapshot) error) error {
	iter := coll.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("iterate %s: %w", coll.Path, err)
		}

		if err := fn(doc); err != nil {
			return err
		}
	}
}

func (c FirestoreClient) GetDoc(ctx context.Context, docRef *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	docSnapshot, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ierr.NotFound
		}
		return nil, err
	}

	if !docSnapshot.Exists() {
		return nil, ierr.NotFound
	}

	return docSnapshot, nil
}

func (c FirestoreClient) SetDoc(ctx context.Context, docRef *firestore.DocumentRef, data interface{}, opts ...firestore.SetOption) (_ *firestore.WriteResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	return docRef.Set(ctx, data, opts...)
}
