package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	"github.com/angelmondragon/tillpoint-backend/pkg/types"
)

// saleDocument is the archive shape of a sale. IDs are stored as strings and
// money as Decimal128 through the registry in pkg/mongo.
type saleDocument struct {
	ID                      string                `bson:"_id"`
	OrderNumber             string                `bson:"order_number"`
	StoreID                 string                `bson:"store_id"`
	StaffID                 string                `bson:"staff_id"`
	TillID                  string                `bson:"till_id,omitempty"`
	Items                   []types.SaleLine      `bson:"items"`
	Promotions              []types.SalePromotion `bson:"promotions"`
	Voucher                 *types.SaleVoucher    `bson:"voucher,omitempty"`
	Payment                 types.SalePayment     `bson:"payment"`
	SubtotalBeforeDiscounts decimal.Decimal       `bson:"subtotal_before_discounts"`
	TotalDiscount           decimal.Decimal       `bson:"total_discount"`
	Total                   decimal.Decimal       `bson:"total"`
	CreatedAt               time.Time             `bson:"created_at"`
}

// MongoRepository writes sale records to a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository wraps the sales collection. The collection must come from
// a client built with pkg/mongo so decimals encode correctly.
func NewMongoRepository(coll *mongo.Collection) (*MongoRepository, error) {
	if coll == nil {
		return nil, errors.New("sales collection required")
	}
	return &MongoRepository{coll: coll}, nil
}

// EnsureIndexes creates the per-store unique order number index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "store_id", Value: 1}, {Key: "order_number", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("sales_store_order_number_key"),
	})
	if err != nil {
		return fmt.Errorf("create sales index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, sale *models.Sale) error {
	if sale == nil {
		return errors.New("sale required")
	}
	if _, err := r.coll.InsertOne(ctx, toDocument(sale)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

func (r *MongoRepository) FindByOrderNumber(ctx context.Context, storeID, orderNumber string) (*models.Sale, error) {
	filter := bson.D{
		{Key: "store_id", Value: strings.TrimSpace(storeID)},
		{Key: "order_number", Value: strings.TrimSpace(orderNumber)},
	}
	var doc saleDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return fromDocument(doc)
}

func toDocument(sale *models.Sale) saleDocument {
	return saleDocument{
		ID:                      sale.ID.String(),
		OrderNumber:             sale.OrderNumber,
		StoreID:                 sale.StoreID,
		StaffID:                 sale.StaffID,
		TillID:                  sale.TillID,
		Items:                   []types.SaleLine(sale.Items),
		Promotions:              []types.SalePromotion(sale.Promotions),
		Voucher:                 sale.Voucher,
		Payment:                 sale.Payment,
		SubtotalBeforeDiscounts: sale.SubtotalBeforeDiscounts,
		TotalDiscount:           sale.TotalDiscount,
		Total:                   sale.Total,
		CreatedAt:               sale.CreatedAt.UTC(),
	}
}

func fromDocument(doc saleDocument) (*models.Sale, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse sale id %q: %w", doc.ID, err)
	}
	return &models.Sale{
		ID:                      id,
		OrderNumber:             doc.OrderNumber,
		StoreID:                 doc.StoreID,
		StaffID:                 doc.StaffID,
		TillID:                  doc.TillID,
		Items:                   types.SaleLines(doc.Items),
		Promotions:              types.SalePromotions(doc.Promotions),
		Voucher:                 doc.Voucher,
		Payment:                 doc.Payment,
		SubtotalBeforeDiscounts: doc.SubtotalBeforeDiscounts,
		TotalDiscount:           doc.TotalDiscount,
		Total:                   doc.Total,
		CreatedAt:               doc.CreatedAt,
	}, nil
}
