package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yasminebennouis/app-reclamations/internal/models"
	"github.com/yasminebennouis/app-reclamations/internal/repository"
)

type ReclamationRepo struct{ db *pgxpool.Pool }

func NewReclamationRepo(db *pgxpool.Pool) *ReclamationRepo { return &ReclamationRepo{db: db} }

const reclamationCols = `
	r.id, r.titre, r.description, r.service, r.statut,
	COALESCE(r.photo_path, ''), COALESCE(r.reponse_technicien, ''),
	r.date_creation, r.date_update, r.date_resolution,
	d.id, d.username, d.role, d.service,
	t.id, t.username, t.role, t.service`

const reclamationFrom = `
	FROM reclamations r
	JOIN users d ON d.id = r.demandeur_id
	LEFT JOIN users t ON t.id = r.technicien_id`

func scanReclamation(row pgx.Row) (*models.Reclamation, error) {
	var (
		r        models.Reclamation
		dem      models.User
		techID   *int64
		techName *string
		techRole *string
		techSvc  *string
		demSvc   *string
	)
	err := row.Scan(
		&r.ID, &r.Titre, &r.Description, &r.Service, &r.Statut,
		&r.PhotoPath, &r.ReponseTechnicien,
		&r.DateCreation, &r.DateUpdate, &r.DateResolution,
		&dem.ID, &dem.Username, &dem.Role, &demSvc,
		&techID, &techName, &techRole, &techSvc,
	)
	if err != nil {
		return nil, err
	}
	if demSvc != nil {
		s := models.Service(*demSvc)
		dem.Service = &s
	}
	r.Demandeur = &dem
	if techID != nil {
		tech := models.User{ID: *techID, Username: *techName, Role: models.Role(*techRole)}
		if techSvc != nil {
			s := models.Service(*techSvc)
			tech.Service = &s
		}
		r.Technicien = &tech
	}
	return &r, nil
}

func (p *ReclamationRepo) queryMany(ctx context.Context, sql string, args ...any) ([]models.Reclamation, error) {
	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Reclamation
	for rows.Next() {
		r, err := scanReclamation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (p *ReclamationRepo) Create(ctx context.Context, r *models.Reclamation) error {
	return p.db.QueryRow(ctx, `
		INSERT INTO reclamations
			(titre, description, service, statut, photo_path, demandeur_id, date_creation, date_update)
		VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,$7,$8)
		RETURNING id`,
		r.Titre, r.Description, r.Service, r.Statut, r.PhotoPath,
		r.Demandeur.ID, r.DateCreation, r.DateUpdate).
		Scan(&r.ID)
}

func (p *ReclamationRepo) GetByID(ctx context.Context, id int64) (*models.Reclamation, error) {
	row := p.db.QueryRow(ctx, `SELECT `+reclamationCols+reclamationFrom+` WHERE r.id=$1`, id)
	r, err := scanReclamation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return r, err
}

func (p *ReclamationRepo) Update(ctx context.Context, r *models.Reclamation) error {
	var techID *int64
	if r.Technicien != nil {
		techID = &r.Technicien.ID
	}
	_, err := p.db.Exec(ctx, `
		UPDATE reclamations SET
			statut=$2, reponse_technicien=NULLIF($3,''), technicien_id=$4,
			date_update=$5, date_resolution=$6
		WHERE id=$1`,
		r.ID, r.Statut, r.ReponseTechnicien, techID, r.DateUpdate, r.DateResolution)
	return err
}

func (p *ReclamationRepo) ListByDemandeur(ctx context.Context, username string) ([]models.Reclamation, error) {
	return p.queryMany(ctx, `SELECT `+reclamationCols+reclamationFrom+`
		WHERE d.username=$1 ORDER BY r.date_creation DESC`, username)
}

func (p *ReclamationRepo) ListByService(ctx context.Context, svc models.Service) ([]models.Reclamation, error) {
	return p.queryMany(ctx, `SELECT `+reclamationCols+reclamationFrom+`
		WHERE r.service=$1 ORDER BY r.date_creation DESC`, svc)
}

func (p *ReclamationRepo) ListByTechnicien(ctx context.Context, username string) ([]models.Reclamation, error) {
	return p.queryMany(ctx, `SELECT `+reclamationCols+reclamationFrom+`
		WHERE t.username=$1 ORDER BY r.date_update DESC`, username)
}

// SearchAdmin builds the filtered page query the admin listing uses:
// free text matches titre or description (ILIKE), statut and service are
// exact, sort is restricted to the two date columns.
func (p *ReclamationRepo) SearchAdmin(ctx context.Context, f repository.AdminFilter) ([]models.Reclamation, int64, error) {
	f = f.Normalize()

	conds := []string{"1=1"}
	args := []any{}

	if q := strings.TrimSpace(f.Q); q != "" {
		pat := "%" + q + "%"
		args = append(args, pat, pat)
		conds = append(conds, "(r.titre ILIKE $"+itoa(len(args)-1)+" OR r.description ILIKE $"+itoa(len(args))+")")
	}
	if f.Statut != nil {
		args = append(args, *f.Statut)
		conds = append(conds, "r.statut = $"+itoa(len(args)))
	}
	if f.Service != nil {
		args = append(args, *f.Service)
		conds = append(conds, "r.service = $"+itoa(len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*)`+reclamationFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol := "date_creation"
	if f.Sort == "dateUpdate" {
		sortCol = "date_update"
	}
	args = append(args, f.Size, f.Page*f.Size)
	sql := fmt.Sprintf(`SELECT %s %s %s ORDER BY r.%s DESC NULLS LAST LIMIT $%d OFFSET $%d`,
		reclamationCols, reclamationFrom, where, sortCol, len(args)-1, len(args))

	items, err := p.queryMany(ctx, sql, args...)
	return items, total, err
}

func (p *ReclamationRepo) CountByService(ctx context.Context, svc models.Service) (int64, error) {
	var n int64
	err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM reclamations WHERE service=$1`, svc).Scan(&n)
	return n, err
}

func (p *ReclamationRepo) CountByStatut(ctx context.Context, st models.Statut) (int64, error) {
	var n int64
	err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM reclamations WHERE statut=$1`, st).Scan(&n)
	return n, err
}

func (p *ReclamationRepo) AvgResolutionSeconds(ctx context.Context) (*float64, error) {
	var avg *float64
	err := p.db.QueryRow(ctx, `
		SELECT AVG(EXTRACT(EPOCH FROM (date_resolution - date_creation)))
		FROM reclamations WHERE date_resolution IS NOT NULL`).Scan(&avg)
	return avg, err
}

func itoa(n int) string { return strconv.Itoa(n) }
