package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the Firestore-backed implementation of Store. Documents
// live in the "products" collection with Firestore-assigned ids.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.client.Collection("products")
}

func (s *FirestoreStore) Insert(ctx context.Context, p Product) (string, error) {
	if s.client == nil {
		return "", errors.New("catalog: firestore client is nil")
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	docRef := s.col().NewDoc()
	if _, err := docRef.Create(ctx, p); err != nil {
		return "", err
	}
	return docRef.ID, nil
}

func (s *FirestoreStore) GetAll(ctx context.Context) ([]Product, error) {
	if s.client == nil {
		return nil, errors.New("catalog: firestore client is nil")
	}
	iter := s.col().OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var products []Product
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var p Product
		if err := snap.DataTo(&p); err != nil {
			return nil, err
		}
		p.ID = snap.Ref.ID
		products = append(products, p)
	}
	return products, nil
}

func (s *FirestoreStore) GetByID(ctx context.Context, id string) (Product, error) {
	if s.client == nil {
		return Product{}, errors.New("catalog: firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, ErrNotFound
	}
	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	var p Product
	if err := snap.DataTo(&p); err != nil {
		return Product{}, err
	}
	p.ID = snap.Ref.ID
	return p, nil
}

func (s *FirestoreStore) Update(ctx context.Context, id string, patch Patch) error {
	if s.client == nil {
		return errors.New("catalog: firestore client is nil")
	}
	if _, err := s.col().Doc(id).Update(ctx, patch.firestoreUpdates()); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if s.client == nil {
		return errors.New("catalog: firestore client is nil")
	}
	_, err := s.col().Doc(id).Delete(ctx)
	return err
}

func (u Patch) firestoreUpdates() []firestore.Update {
	var ups []firestore.Update
	add := func(path string, v interface{}) {
		ups = append(ups, firestore.Update{Path: path, Value: v})
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Price != nil {
		add("price", *u.Price)
	}
	if u.OriginalPrice != nil {
		add("original_price", *u.OriginalPrice)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	if u.Sizes != nil {
		add("sizes", u.Sizes)
	}
	if u.Colors != nil {
		add("colors", u.Colors)
	}
	if u.Images != nil {
		add("images", u.Images)
	}
	if u.Features != nil {
		add("features", u.Features)
	}
	if u.Rating != nil {
		add("rating", *u.Rating)
	}
	if u.Reviews != nil {
		add("reviews", *u.Reviews)
	}
	add("updated_at", time.Now().UTC())
	return ups
}
