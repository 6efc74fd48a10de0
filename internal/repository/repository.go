package repository

import (
	"context"
	"fmt"

	"github.com/abhishek622/exitview/pkg"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL unique_violation
const uniqueViolation = "23505"

type Repository struct {
	User      UserRepository
	Candidate CandidateRepository
}

func NewRepository(db *pgxpool.Pool, crypto *pkg.Crypto) *Repository {
	return &Repository{
		User:      UserRepository{db: db},
		Candidate: CandidateRepository{db: db, crypto: crypto},
	}
}

func execTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
