package usecase

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type SettingUsecase struct {
	settings repo.SettingRepository
}

func NewSettingUsecase(settings repo.SettingRepository) *SettingUsecase {
	return &SettingUsecase{settings: settings}
}

type SettingInput struct {
	Value    string
	IsPublic bool
}

func (u *SettingUsecase) List(ctx context.Context) ([]model.Setting, error) {
	ss, err := u.settings.List(ctx, false)
	if err != nil {
		return nil, dbError()
	}
	return ss, nil
}

// 公開フラグの立ったものだけ key -> value で返す
func (u *SettingUsecase) Public(ctx context.Context) (map[string]string, error) {
	ss, err := u.settings.List(ctx, true)
	if err != nil {
		return nil, dbError()
	}
	out := make(map[string]string, len(ss))
	for _, s := range ss {
		out[s.Key] = s.Value
	}
	return out, nil
}

func (u *SettingUsecase) Upsert(ctx context.Context, key string, in SettingInput) (model.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > 100 {
		return model.Setting{}, NewValidationError(map[string]string{"key": "must be 1-100 characters"})
	}

	s := model.Setting{Key: key, Value: in.Value, IsPublic: in.IsPublic}
	if err := u.settings.Upsert(ctx, s); err != nil {
		return model.Setting{}, dbError()
	}
	return s, nil
}
