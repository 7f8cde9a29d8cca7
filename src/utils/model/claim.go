package model

import (
	"context"
	"time"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"

	"gorm.io/gorm"
)

const TableClaim = "claims"

// Reward claimed by a user for a verified post
type Claim struct {
	Id              uint64    `json:"id" gorm:"primaryKey"`
	Username        string    `json:"username"`
	Amount          int64     `json:"amount"`
	ProofIdentifier string    `json:"proofIdentifier"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (Claim) TableName() string {
	return TableClaim
}

// Bookkeeping of claims
type Ledger interface {
	Record(ctx context.Context, claim *Claim) error
	ForUser(ctx context.Context, username string) ([]Claim, error)
	Close()
}

// Opens the configured ledger, claims are not persisted when the database is disabled
func NewLedger(ctx context.Context, config *config.Config) (Ledger, error) {
	if !config.Database.Enabled {
		return &NoopLedger{}, nil
	}

	db, err := NewConnection(ctx, config, "ledger")
	if err != nil {
		return nil, err
	}
	return NewDBLedger(db), nil
}

type DBLedger struct {
	db *gorm.DB
}

func NewDBLedger(db *gorm.DB) (self *DBLedger) {
	self = new(DBLedger)
	self.db = db
	return
}

func (self *DBLedger) Record(ctx context.Context, claim *Claim) error {
	return self.db.WithContext(ctx).Create(claim).Error
}

func (self *DBLedger) ForUser(ctx context.Context, username string) (out []Claim, err error) {
	err = self.db.WithContext(ctx).
		Where("username = ?", username).
		Order("id DESC").
		Find(&out).
		Error
	return
}

func (self *DBLedger) Close() {
	db, err := self.db.DB()
	if err != nil {
		return
	}
	_ = db.Close()
}

type NoopLedger struct{}

func (self *NoopLedger) Record(ctx context.Context, claim *Claim) error {
	return nil
}

func (self *NoopLedger) ForUser(ctx context.Context, username string) ([]Claim, error) {
	return nil, nil
}

func (self *NoopLedger) Close() {}
