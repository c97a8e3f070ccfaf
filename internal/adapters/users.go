package adapters

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/sqlscan"
	"gitlab.com/ranfdev/mascotas/internal/db"
	"gitlab.com/ranfdev/mascotas/internal/domain"
)

type userRepo struct {
	base
}

func NewUserRepo(sdb *db.SharedDB) domain.UserRepo {
	return &userRepo{newBase(sdb)}
}

func (r *userRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	sql, args, _ := r.stmt.
		Select("COUNT(*)").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()

	count := 0
	err := r.sdb.QueryRowContext(ctx, sql, args...).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) CreateUser(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	user.CreatedAt = time.Now().UTC()
	ins := r.stmt.
		Insert("users").
		Columns("username", "passwd_hash", "role", "created_at").
		Values(user.Username, user.PasswdHash, string(user.Role), user.CreatedAt)

	id, err := r.insert(ctx, r.sdb, ins)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateUsername
	} else if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *userRepo) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	sql, args, _ := r.stmt.
		Select("id", "username", "passwd_hash", "role", "created_at").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()

	user := &domain.User{}
	err := sqlscan.Get(ctx, r.sdb, user, sql, args...)
	if sqlscan.NotFound(err) {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}
