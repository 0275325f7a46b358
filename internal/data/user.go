package data

import (
	"context"
	"fmt"

	"mediareview/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

type userRepo struct {
	data *Data
	log  *log.Helper
}

// NewUserRepo creates a new user repository
func NewUserRepo(data *Data, logger log.Logger) biz.UserRepo {
	return &userRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/user")),
	}
}

func (r *userRepo) CreateUser(ctx context.Context, name string) (*biz.User, error) {
	row := &User{Name: name}
	err := r.data.write(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return biz.ErrAlreadyExists
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", name, mapError(err, biz.ErrUserNotFound))
	}

	r.log.WithContext(ctx).Debugf("created user %d (%s)", row.ID, row.Name)
	return &biz.User{ID: row.ID, Name: row.Name}, nil
}

func (r *userRepo) FindUser(ctx context.Context, ref biz.Ref) (*biz.User, error) {
	if u, ok := r.data.users.Get(refKey(ref)); ok {
		return &u, nil
	}

	q := r.data.db.WithContext(ctx)
	if id, ok := ref.ID(); ok {
		q = q.Where("id = ?", id)
	} else {
		q = q.Where("LOWER(name) = LOWER(?)", ref.Name())
	}

	var row User
	if err := q.First(&row).Error; err != nil {
		return nil, mapError(err, biz.ErrUserNotFound)
	}

	u := biz.User{ID: row.ID, Name: row.Name}
	r.data.users.Add(refKey(biz.ByID(u.ID)), u)
	r.data.users.Add(refKey(biz.ByName(u.Name)), u)
	return &u, nil
}

func (r *userRepo) ListUsers(ctx context.Context) ([]*biz.User, error) {
	var rows []User
	if err := r.data.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, mapError(err, biz.ErrUserNotFound)
	}

	users := make([]*biz.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, &biz.User{ID: row.ID, Name: row.Name})
	}
	return users, nil
}
