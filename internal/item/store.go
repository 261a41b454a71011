package item

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/naughtygopher/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type persistentStore interface {
	ListItems(ctx context.Context) ([]Item, error)
	Item(ctx context.Context, id uuid.UUID) (*Item, error)
	InsertItem(ctx context.Context, item Item) (*Item, error)
	ReplaceItem(ctx context.Context, item Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// itemDocument is the stored shape of an Item. The identifier and both timestamps
// are persisted as strings for storage-engine portability.
type itemDocument struct {
	ID          string  `bson:"id"`
	Name        string  `bson:"name"`
	Description string  `bson:"description,omitempty"`
	Price       float64 `bson:"price"`
	CreatedDate string  `bson:"createdDate"`
	UpdatedDate string  `bson:"updatedDate"`
}

func newItemDocument(it Item) itemDocument {
	return itemDocument{
		ID:          it.ID.String(),
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		CreatedDate: it.CreatedDate.Format(time.RFC3339Nano),
		UpdatedDate: it.UpdatedDate.Format(time.RFC3339Nano),
	}
}

func (doc itemDocument) toItem() (*Item, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, errors.Wrap(err, "stored item has a malformed identifier")
	}

	created, err := time.Parse(time.RFC3339Nano, doc.CreatedDate)
	if err != nil {
		return nil, errors.Wrap(err, "stored item has a malformed createdDate")
	}

	updated, err := time.Parse(time.RFC3339Nano, doc.UpdatedDate)
	if err != nil {
		return nil, errors.Wrap(err, "stored item has a malformed updatedDate")
	}

	return &Item{
		ID:          id,
		Name:        doc.Name,
		Description: doc.Description,
		Price:       doc.Price,
		CreatedDate: created,
		UpdatedDate: updated,
	}, nil
}

type mongoItemStore struct {
	mongoDriver    *mongo.Database
	itemCollection *mongo.Collection
}

// NewMongoPersistentStore prepares the items collection, including the unique
// index on the identifier field which backs duplicate-insert rejection.
func NewMongoPersistentStore(ctx context.Context, client *mongo.Database, collection string) (*mongoItemStore, error) { //nolint:revive // it is ok to return unexported type in this case, ensures controlled access
	istore := &mongoItemStore{
		mongoDriver:    client,
		itemCollection: client.Collection(collection),
	}

	_, err := istore.itemCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to ensure unique index on items.id")
	}

	return istore, nil
}

func (istore *mongoItemStore) InsertItem(ctx context.Context, it Item) (*Item, error) {
	_, err := istore.itemCollection.InsertOne(ctx, newItemDocument(it))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.Wrapf(ErrDuplicateItem, ": %s", it.ID)
		}
		return nil, errors.Wrap(err, "could not save the item")
	}

	return &it, nil
}

func (istore *mongoItemStore) Item(ctx context.Context, id uuid.UUID) (*Item, error) {
	result := istore.itemCollection.FindOne(ctx, bson.M{"id": bson.M{"$eq": id.String()}})
	doc := new(itemDocument)
	err := result.Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed getting item")
	}

	return doc.toItem()
}

func (istore *mongoItemStore) ListItems(ctx context.Context) ([]Item, error) {
	result, err := istore.itemCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch items")
	}

	docs := make([]itemDocument, 0)
	err = result.All(ctx, &docs)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch items")
	}

	list := make([]Item, 0, len(docs))
	for i := range docs {
		it, err := docs[i].toItem()
		if err != nil {
			return nil, err
		}
		list = append(list, *it)
	}

	return list, nil
}

// ReplaceItem overwrites the whole document matching the item's identifier.
// It is a no-op when the identifier is absent; callers verify existence first.
func (istore *mongoItemStore) ReplaceItem(ctx context.Context, it Item) error {
	_, err := istore.itemCollection.ReplaceOne(
		ctx,
		bson.M{"id": bson.M{"$eq": it.ID.String()}},
		newItemDocument(it),
	)
	if err != nil {
		return errors.Wrap(err, "could not replace the item")
	}

	return nil
}

func (istore *mongoItemStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	_, err := istore.itemCollection.DeleteOne(ctx, bson.M{"id": bson.M{"$eq": id.String()}})
	if err != nil {
		return errors.Wrap(err, "could not delete the item")
	}

	return nil
}
