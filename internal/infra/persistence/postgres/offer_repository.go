package postgres

import (
	"context"
	"strings"
	"time"

	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/offerquery"
	"coderr/internal/domain/repository"
	"coderr/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const offerAggregateColumns = "offers.*, " +
	"MIN(offer_details.price) AS min_price, " +
	"MIN(offer_details.delivery_time_in_days) AS min_delivery_time"

// offerOrderClauses maps every ordering to a total order. id breaks the remaining ties.
var offerOrderClauses = map[offerquery.Ordering]string{
	offerquery.OrderingUpdatedAtDesc: "offers.updated_at DESC, offers.id DESC",
	offerquery.OrderingUpdatedAtAsc:  "offers.updated_at ASC, offers.id ASC",
	offerquery.OrderingMinPriceAsc:   "min_price ASC, offers.updated_at DESC, offers.id DESC",
	offerquery.OrderingMinPriceDesc:  "min_price DESC, offers.updated_at DESC, offers.id DESC",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates an offer repository bound to db.
func NewOfferRepository(db *gorm.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

// Create inserts the offer row and its details in one statement batch.
func (repo *offerRepository) Create(ctx context.Context, offer *entity.Offer) error {
	offerM := fromOfferDomain(offer)

	if err := repo.db.WithContext(ctx).Create(offerM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("offer tiers must have distinct offer_type values")
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create offer")
	}

	offer.ID = offerM.ID
	offer.CreatedAt = offerM.CreatedAt
	offer.UpdatedAt = offerM.UpdatedAt
	for i := range offerM.Details {
		offer.Details[i].ID = offerM.Details[i].ID
		offer.Details[i].OfferID = offerM.ID
	}
	offer.MinPrice, offer.MinDeliveryTime = aggregateDetails(offer.Details)

	return nil
}

// FindByID loads one offer with its aggregates, details and creator.
func (repo *offerRepository) FindByID(ctx context.Context, id int64) (*entity.Offer, error) {
	var rows []model.OfferWithAggregates
	if err := repo.aggregateQuery(ctx).
		Where("offers.id = ?", id).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find offer by id")
	}
	if len(rows) == 0 {
		return nil, repository.ErrOfferNotFound
	}

	offers, err := repo.hydrate(ctx, rows)
	if err != nil {
		return nil, err
	}

	return offers[0], nil
}

// List runs the filtered count and the page query over the same predicate.
func (repo *offerRepository) List(ctx context.Context, q offerquery.Query) ([]*entity.Offer, int64, error) {
	var total int64
	if err := applyOfferFilters(repo.db.WithContext(ctx).Model(&model.OfferModel{}), q).
		Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count offers")
	}
	if total == 0 {
		return []*entity.Offer{}, 0, nil
	}

	orderClause, ok := offerOrderClauses[q.Ordering]
	if !ok {
		orderClause = offerOrderClauses[offerquery.DefaultOrdering]
	}

	var rows []model.OfferWithAggregates
	if err := applyOfferFilters(repo.aggregateQuery(ctx), q).
		Order(orderClause).
		Limit(q.PageSize).
		Offset(q.Offset()).
		Scan(&rows).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list offers")
	}

	offers, err := repo.hydrate(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	return offers, total, nil
}

// Update saves the offer's own columns and bumps updated_at.
func (repo *offerRepository) Update(ctx context.Context, offer *entity.Offer) error {
	now := time.Now().UTC()
	result := repo.db.WithContext(ctx).Model(&model.OfferModel{}).
		Where("id = ?", offer.ID).
		Updates(map[string]any{
			"title":       offer.Title,
			"description": offer.Description,
			"image":       offer.Image,
			"updated_at":  now,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update offer")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOfferNotFound
	}
	offer.UpdatedAt = now

	return nil
}

// Delete detaches orders from the offer and its tiers, then removes both.
func (repo *offerRepository) Delete(ctx context.Context, id int64) error {
	db := repo.db.WithContext(ctx)

	detailIDs := db.Model(&model.OfferDetailModel{}).Select("id").Where("offer_id = ?", id)
	if err := db.Model(&model.OrderModel{}).
		Where("offer_detail_id IN (?)", detailIDs).
		UpdateColumn("offer_detail_id", nil).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach orders from offer details")
	}
	if err := db.Model(&model.OrderModel{}).
		Where("offer_id = ?", id).
		UpdateColumn("offer_id", nil).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach orders from offer")
	}
	if err := db.Where("offer_id = ?", id).Delete(&model.OfferDetailModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete offer details")
	}

	result := db.Where("id = ?", id).Delete(&model.OfferModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete offer")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOfferNotFound
	}

	return nil
}

func (repo *offerRepository) FindDetailByID(ctx context.Context, id int64) (*entity.OfferDetail, error) {
	var detailM model.OfferDetailModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&detailM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOfferDetailNotFound
		}

		return nil, errors.Wrap(err, "failed to find offer detail by id")
	}

	return toOfferDetailDomain(&detailM), nil
}

func (repo *offerRepository) CreateDetail(ctx context.Context, detail *entity.OfferDetail) error {
	detailM := fromOfferDetailDomain(detail)

	if err := repo.db.WithContext(ctx).Create(detailM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("offer already has a tier of this offer_type")
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrOfferNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create offer detail")
	}
	detail.ID = detailM.ID

	return nil
}

func (repo *offerRepository) UpdateDetail(ctx context.Context, detail *entity.OfferDetail) error {
	result := repo.db.WithContext(ctx).Model(&model.OfferDetailModel{}).
		Where("id = ?", detail.ID).
		Updates(map[string]any{
			"title":                 detail.Title,
			"price":                 detail.Price,
			"delivery_time_in_days": detail.DeliveryTimeInDays,
			"revisions":             detail.Revisions,
			"features":              datatypes.JSONSlice[string](nonNilFeatures(detail.Features)),
		})
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("offer detail violates a value constraint")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update offer detail")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOfferDetailNotFound
	}

	return nil
}

func (repo *offerRepository) aggregateQuery(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Model(&model.OfferModel{}).
		Select(offerAggregateColumns).
		Joins("LEFT JOIN offer_details ON offer_details.offer_id = offers.id").
		Group("offers.id")
}

// applyOfferFilters adds the WHERE predicates of q. Tier filters use EXISTS so
// they never interfere with the aggregate join.
func applyOfferFilters(db *gorm.DB, q offerquery.Query) *gorm.DB {
	if q.CreatorID != nil {
		db = db.Where("offers.creator_id = ?", *q.CreatorID)
	}
	if q.MinPrice != nil {
		db = db.Where("EXISTS (SELECT 1 FROM offer_details od WHERE od.offer_id = offers.id AND od.price >= ?)",
			q.MinPrice.String())
	}
	if q.MaxDeliveryTime != nil {
		db = db.Where("EXISTS (SELECT 1 FROM offer_details od WHERE od.offer_id = offers.id AND od.delivery_time_in_days <= ?)",
			*q.MaxDeliveryTime)
	}
	if q.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
		db = db.Where(`(LOWER(offers.title) LIKE ? ESCAPE '\' OR LOWER(offers.description) LIKE ? ESCAPE '\')`,
			pattern, pattern)
	}

	return db
}

// hydrate batch-loads details and creators for rows, preserving row order.
func (repo *offerRepository) hydrate(ctx context.Context, rows []model.OfferWithAggregates) ([]*entity.Offer, error) {
	offerIDs := make([]int64, 0, len(rows))
	creatorIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		offerIDs = append(offerIDs, row.ID)
		creatorIDs = append(creatorIDs, row.CreatorID)
	}

	var detailMs []*model.OfferDetailModel
	if err := repo.db.WithContext(ctx).
		Where("offer_id IN ?", offerIDs).
		Order("offer_id ASC, id ASC").
		Find(&detailMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load offer details")
	}
	detailsByOffer := make(map[int64][]*entity.OfferDetail, len(rows))
	for _, detailM := range detailMs {
		detailsByOffer[detailM.OfferID] = append(detailsByOffer[detailM.OfferID], toOfferDetailDomain(detailM))
	}

	creators, err := findUsersByIDs(ctx, repo.db, creatorIDs)
	if err != nil {
		return nil, err
	}

	offers := make([]*entity.Offer, 0, len(rows))
	for i := range rows {
		offer := toOfferDomain(&rows[i].OfferModel)
		offer.Details = detailsByOffer[offer.ID]
		if offer.Details == nil {
			offer.Details = []*entity.OfferDetail{}
		}
		offer.Creator = creators[offer.CreatorID]
		if rows[i].MinPrice.Valid {
			minPrice := rows[i].MinPrice.Decimal
			offer.MinPrice = &minPrice
		}
		offer.MinDeliveryTime = rows[i].MinDeliveryTime
		offers = append(offers, offer)
	}

	return offers, nil
}

func aggregateDetails(details []*entity.OfferDetail) (*decimal.Decimal, *int) {
	if len(details) == 0 {
		return nil, nil
	}

	minPrice := details[0].Price
	minDelivery := details[0].DeliveryTimeInDays
	for _, d := range details[1:] {
		if d.Price.LessThan(minPrice) {
			minPrice = d.Price
		}
		if d.DeliveryTimeInDays < minDelivery {
			minDelivery = d.DeliveryTimeInDays
		}
	}

	return &minPrice, &minDelivery
}

func nonNilFeatures(features []string) []string {
	if features == nil {
		return []string{}
	}

	return features
}

// --- Mapper Functions ---

func toOfferDomain(data *model.OfferModel) *entity.Offer {
	if data == nil {
		return nil
	}

	return &entity.Offer{
		ID:          data.ID,
		CreatorID:   data.CreatorID,
		Title:       data.Title,
		Description: data.Description,
		Image:       data.Image,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromOfferDomain(data *entity.Offer) *model.OfferModel {
	if data == nil {
		return nil
	}

	details := make([]model.OfferDetailModel, 0, len(data.Details))
	for _, d := range data.Details {
		details = append(details, *fromOfferDetailDomain(d))
	}

	return &model.OfferModel{
		ID:          data.ID,
		CreatorID:   data.CreatorID,
		Title:       data.Title,
		Description: data.Description,
		Image:       data.Image,
		Details:     details,
	}
}

func toOfferDetailDomain(data *model.OfferDetailModel) *entity.OfferDetail {
	if data == nil {
		return nil
	}

	return &entity.OfferDetail{
		ID:                 data.ID,
		OfferID:            data.OfferID,
		OfferType:          entity.OfferType(data.OfferType),
		Title:              data.Title,
		Price:              data.Price,
		DeliveryTimeInDays: data.DeliveryTimeInDays,
		Revisions:          data.Revisions,
		Features:           nonNilFeatures(data.Features),
	}
}

func fromOfferDetailDomain(data *entity.OfferDetail) *model.OfferDetailModel {
	if data == nil {
		return nil
	}

	return &model.OfferDetailModel{
		ID:                 data.ID,
		OfferID:            data.OfferID,
		OfferType:          data.OfferType.String(),
		Title:              data.Title,
		Price:              data.Price,
		DeliveryTimeInDays: data.DeliveryTimeInDays,
		Revisions:          data.Revisions,
		Features:           datatypes.JSONSlice[string](nonNilFeatures(data.Features)),
	}
}
