package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/stockly/internal/models"
	"gorm.io/gorm"
)

type gormUser struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (gormUser) TableName() string { return "users" }

type gormNamed struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	UserID    string `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type gormProduct struct {
	ID        string  `gorm:"primaryKey"`
	UserID    string  `gorm:"not null;index;uniqueIndex:idx_products_user_sku"`
	Name      string  `gorm:"not null"`
	SKU       string  `gorm:"column:sku;not null;uniqueIndex:idx_products_user_sku"`
	Price     float64 `gorm:"not null"`
	Quantity  int     `gorm:"not null"`
	Category  string  `gorm:"not null;default:Unknown"`
	Supplier  string  `gorm:"not null;default:Unknown"`
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (gormProduct) TableName() string { return "products" }

func (p gormProduct) model() models.Product {
	return models.Product{
		ID: p.ID, UserID: p.UserID, Name: p.Name, SKU: p.SKU, Price: p.Price, Quantity: p.Quantity,
		Category: p.Category, Supplier: p.Supplier, Status: p.Status, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

func fromProduct(p models.Product) gormProduct {
	return gormProduct{
		ID: p.ID, UserID: p.UserID, Name: p.Name, SKU: p.SKU, Price: p.Price, Quantity: p.Quantity,
		Category: p.Category, Supplier: p.Supplier, Status: p.Status, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// MigrateGorm creates or updates every table used by the GORM repositories.
func MigrateGorm(db *gorm.DB) error {
	if err := db.AutoMigrate(&gormUser{}, &gormProduct{}); err != nil {
		return fmt.Errorf("migrate users/products: %w", err)
	}
	for _, table := range []string{CategoriesTable, SuppliersTable} {
		if err := db.Table(table).AutoMigrate(&gormNamed{}); err != nil {
			return fmt.Errorf("migrate %s: %w", table, err)
		}
	}
	return nil
}

func translateGormErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicatedValueUnique
	default:
		return err
	}
}

// GormProductRepository is the ORM-backed ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := fromProduct(p)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Product{}, translateGormErr(err, ErrProductNotFound)
	}
	return row.model(), nil
}

func (r *GormProductRepository) GetAll(ctx context.Context, userID string) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []gormProduct
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]models.Product, len(rows))
	for i, row := range rows {
		products[i] = row.model()
	}
	return products, nil
}

func (r *GormProductRepository) GetByID(ctx context.Context, userID, id string) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var row gormProduct
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		return models.Product{}, translateGormErr(err, ErrProductNotFound)
	}
	return row.model(), nil
}

func (r *GormProductRepository) GetBySKU(ctx context.Context, userID, sku string) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var row gormProduct
	err := r.db.WithContext(ctx).Where("sku = ? AND user_id = ?", sku, userID).First(&row).Error
	if err != nil {
		return models.Product{}, translateGormErr(err, ErrProductNotFound)
	}
	return row.model(), nil
}

func (r *GormProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&gormProduct{}).
		Where("id = ? AND user_id = ?", p.ID, p.UserID).
		Updates(map[string]any{
			"name":       p.Name,
			"sku":        p.SKU,
			"price":      p.Price,
			"quantity":   p.Quantity,
			"category":   p.Category,
			"supplier":   p.Supplier,
			"status":     p.Status,
			"updated_at": p.UpdatedAt,
		})
	if res.Error != nil {
		return models.Product{}, translateGormErr(res.Error, ErrProductNotFound)
	}
	if res.RowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return r.GetByID(ctx, p.UserID, p.ID)
}

func (r *GormProductRepository) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&gormProduct{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q := r.db.WithContext(ctx).Model(&gormProduct{}).Where("user_id = ?", pf.UserID)
	if pf.Name != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(pf.Name)+"%")
	}
	if pf.Category != "" {
		q = q.Where("lower(category) = ?", strings.ToLower(pf.Category))
	}
	if pf.Status != "" {
		q = q.Where("lower(status) = ?", strings.ToLower(pf.Status))
	}
	if pf.MinPrice != nil {
		q = q.Where("price >= ?", *pf.MinPrice)
	}
	if pf.MaxPrice != nil {
		q = q.Where("price <= ?", *pf.MaxPrice)
	}
	if pf.MinQty != nil {
		q = q.Where("quantity >= ?", *pf.MinQty)
	}
	if pf.MaxQty != nil {
		q = q.Where("quantity <= ?", *pf.MaxQty)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pf.Limit != nil && *pf.Limit > 0 {
		q = q.Limit(*pf.Limit)
	}
	if pf.Offset != nil && *pf.Offset > 0 {
		q = q.Offset(*pf.Offset)
	}

	var rows []gormProduct
	if err := q.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	products := make([]models.Product, len(rows))
	for i, row := range rows {
		products[i] = row.model()
	}
	return products, int(total), nil
}

func (r *GormProductRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// GormNamedRepository serves categories or suppliers through GORM.
type GormNamedRepository struct {
	db    *gorm.DB
	table string
}

func NewGormNamedRepository(db *gorm.DB, table string) *GormNamedRepository {
	return &GormNamedRepository{db: db, table: table}
}

func (r *GormNamedRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

func (n gormNamed) model() models.Named {
	return models.Named{ID: n.ID, Name: n.Name, UserID: n.UserID, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}
}

func (r *GormNamedRepository) Create(ctx context.Context, rec models.Named) (models.Named, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := gormNamed{ID: rec.ID, Name: rec.Name, UserID: rec.UserID, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}
	if err := r.scoped(ctx).Create(&row).Error; err != nil {
		return models.Named{}, translateGormErr(err, ErrRecordNotFound)
	}
	return row.model(), nil
}

func (r *GormNamedRepository) ListByUser(ctx context.Context, userID string) ([]models.Named, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []gormNamed
	if err := r.scoped(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Named, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out, nil
}

func (r *GormNamedRepository) GetByID(ctx context.Context, userID, id string) (models.Named, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var row gormNamed
	if err := r.scoped(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return models.Named{}, translateGormErr(err, ErrRecordNotFound)
	}
	return row.model(), nil
}

func (r *GormNamedRepository) Update(ctx context.Context, rec models.Named) (models.Named, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res := r.scoped(ctx).Where("id = ? AND user_id = ?", rec.ID, rec.UserID).
		Updates(map[string]any{"name": rec.Name, "updated_at": rec.UpdatedAt})
	if res.Error != nil {
		return models.Named{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Named{}, ErrRecordNotFound
	}
	return r.GetByID(ctx, rec.UserID, rec.ID)
}

func (r *GormNamedRepository) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res := r.scoped(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&gormNamed{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (u gormUser) model() models.User {
	return models.User{ID: u.ID, Name: u.Name, Email: u.Email, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func (r *GormUserRepository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := gormUser{ID: u.ID, Name: u.Name, Email: strings.ToLower(u.Email), PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.User{}, translateGormErr(err, ErrUserNotFound)
	}
	return row.model(), nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var row gormUser
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&row).Error; err != nil {
		return models.User{}, translateGormErr(err, ErrUserNotFound)
	}
	return row.model(), nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var row gormUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return models.User{}, translateGormErr(err, ErrUserNotFound)
	}
	return row.model(), nil
}
