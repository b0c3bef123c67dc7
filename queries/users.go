package queries

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// GetUserByID godoc
func (repo *Repo) GetUserByID(ctx context.Context, id uint64) (*model.User, error) {
	user := model.User{}
	err := repo.ConnReader.WithContext(ctx).Where("id = ?", id).Take(&user).Error
	return &user, err
}

// GetUserByLogin finds a user by email or username
func (repo *Repo) GetUserByLogin(ctx context.Context, identifier string) (*model.User, error) {
	user := model.User{}
	identifier = strings.TrimSpace(identifier)
	err := repo.Conn.WithContext(ctx).
		Where("email = ? OR username = ?", strings.ToLower(identifier), identifier).
		Take(&user).Error
	return &user, err
}

// GetUserByReferralCode godoc
func (repo *Repo) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	user := model.User{}
	err := repo.ConnReader.WithContext(ctx).Where("referral_code = ?", code).Take(&user).Error
	return &user, err
}

// ReferralCodeExists godoc
func (repo *Repo) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := repo.Conn.WithContext(ctx).Model(&model.User{}).Where("referral_code = ?", code).Count(&count).Error
	return count > 0, err
}

// UserExists checks whether the email or username is already taken
func (repo *Repo) UserExists(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := repo.Conn.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR username = ?", strings.ToLower(email), username).
		Count(&count).Error
	return count > 0, err
}

// CreateUser godoc
func (repo *Repo) CreateUser(ctx context.Context, user *model.User) error {
	return repo.Conn.WithContext(ctx).Create(user).Error
}

// UpdateUserFields updates the given columns of a user
func (repo *Repo) UpdateUserFields(ctx context.Context, userID uint64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	db := repo.Conn.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(fields)
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LockUser loads the user row with a FOR UPDATE lock held until the transaction ends
func LockUser(tx *gorm.DB, userID uint64) (*model.User, error) {
	user := model.User{}
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", userID).Take(&user).Error
	return &user, err
}

// SaveBalances writes the three balances of a user inside the given transaction
func SaveBalances(tx *gorm.DB, userID uint64, b model.Balances) error {
	return tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"balance":         model.NewMoney(b.Total),
		"deposit_balance": model.NewMoney(b.Deposit),
		"earning_balance": model.NewMoney(b.Earning),
		"updated_at":      time.Now(),
	}).Error
}

// ChildrenOf returns the users referred by any of the given referral codes
func (repo *Repo) ChildrenOf(ctx context.Context, referralCodes []string) ([]*model.User, error) {
	users := make([]*model.User, 0)
	if len(referralCodes) == 0 {
		return users, nil
	}
	err := repo.ConnReader.WithContext(ctx).
		Where("referred_by IN ?", referralCodes).
		Order("created_at ASC, id ASC").
		Find(&users).Error
	return users, err
}

// GetUsers returns a page of users, optionally filtered by email, username or referral code
func (repo *Repo) GetUsers(ctx context.Context, search string, page, limit int) ([]model.User, model.PagingMeta, error) {
	meta, offset := model.NewPagingMeta(page, limit)
	users := make([]model.User, 0)
	db := repo.ConnReaderAdmin.WithContext(ctx).Model(&model.User{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		db = db.Where("LOWER(email) LIKE ? OR LOWER(username) LIKE ? OR referral_code = ?", like, like, strings.ToUpper(search))
		meta.Filter["search"] = search
	}
	if err := db.Count(&meta.Count).Error; err != nil {
		return nil, meta, err
	}
	err := db.Order("created_at DESC").Limit(meta.Limit).Offset(offset).Find(&users).Error
	return users, meta, err
}

// GetActiveUserIDs returns the ids of all users that are not blocked
func (repo *Repo) GetActiveUserIDs(ctx context.Context) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := repo.ConnReaderAdmin.WithContext(ctx).Model(&model.User{}).
		Where("is_blocked = ?", false).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// GetQuizEligibleUserIDs returns active users whose balance reaches the quiz minimum
func (repo *Repo) GetQuizEligibleUserIDs(ctx context.Context, minBalance model.Money) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := repo.ConnReaderAdmin.WithContext(ctx).Model(&model.User{}).
		Where("is_blocked = ? AND balance >= ?", false, minBalance).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// GetTeamGraphUsers loads the columns needed to rebuild every team in memory
func (repo *Repo) GetTeamGraphUsers(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	err := repo.ConnReaderAdmin.WithContext(ctx).
		Select("id", "username", "referral_code", "referred_by", "balance", "created_at").
		Order("id ASC").
		Find(&users).Error
	return users, err
}
