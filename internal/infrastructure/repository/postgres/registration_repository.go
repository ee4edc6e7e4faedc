package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-auction/internal/domain/registration"
	qb "github.com/riskibarqy/league-auction/internal/platform/querybuilder"
)

type RegistrationRepository struct {
	db *sqlx.DB
}

func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) Create(ctx context.Context, item registration.Registration) error {
	formData, err := sonic.Marshal(registrationFormToDocument(item.Form))
	if err != nil {
		return fmt.Errorf("encode registration form: %w", err)
	}

	query, args, err := qb.InsertInto("tournament_registrations").
		Columns("public_id", "tournament_public_id", "sport_category", "full_name", "email", "phone", "form_data", "created_at").
		Values(
			item.ID,
			item.TournamentID,
			string(item.Form.SportCategory),
			item.Form.FullName,
			item.Form.Email,
			registration.NormalizePhone(item.Form.Phone),
			formData,
			item.CreatedAt,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert registration query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, registrationID string) (registration.Registration, bool, error) {
	query, args, err := qb.Select("*").From("tournament_registrations").
		Where(qb.Eq("public_id", registrationID)).
		ToSQL()
	if err != nil {
		return registration.Registration{}, false, fmt.Errorf("build select registration query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *RegistrationRepository) FindLatestByContact(ctx context.Context, email, phone string) (registration.Registration, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = registration.NormalizePhone(phone)
	if email == "" && phone == "" {
		return registration.Registration{}, false, nil
	}

	query, args, err := qb.Select("*").From("tournament_registrations").
		Where(qb.Expr("((? <> '' AND LOWER(email) = ?) OR (? <> '' AND phone = ?))", email, email, phone, phone)).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return registration.Registration{}, false, fmt.Errorf("build select registration by contact query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *RegistrationRepository) getOne(ctx context.Context, query string, args []any) (registration.Registration, bool, error) {
	var row registrationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return registration.Registration{}, false, nil
		}
		return registration.Registration{}, false, fmt.Errorf("get registration: %w", err)
	}

	var doc registrationFormDocument
	if err := sonic.Unmarshal(row.FormData, &doc); err != nil {
		return registration.Registration{}, false, fmt.Errorf("decode registration %s form: %w", row.PublicID, err)
	}
	return registration.Registration{
		ID:           row.PublicID,
		TournamentID: row.TournamentID,
		Form:         doc.toForm(),
		CreatedAt:    row.CreatedAt,
	}, true, nil
}
