package middleware

import (
	"net/http"

	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTのtvとDBのtoken_versionが一致するか、無効化されていないかを確認。
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !tokenVersionMatches(c, userRepo) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			return next(c)
		}
	}
}

// OptionalAuthJWT の後ろで使う。ゲスト（user_id無し）はそのまま通す。
func OptionalTokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Get(CtxUserIDKey) == nil {
				return next(c)
			}
			if !tokenVersionMatches(c, userRepo) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			return next(c)
		}
	}
}

func tokenVersionMatches(c echo.Context, userRepo repository.UserRepository) bool {
	//AuthJWTが入れたuser_id を取得する
	userID, ok := c.Get(CtxUserIDKey).(int64)
	if !ok || userID <= 0 {
		return false
	}

	//AuthJWTが入れたtoken_version(tv)を取得する
	tv, ok := c.Get(CtxTokenVersionKey).(int)
	if !ok || tv < 0 {
		return false
	}

	//DBから最新のuserを取得する
	user, err := userRepo.FindByID(c.Request().Context(), userID)
	if err != nil || user == nil {
		return false
	}

	//無効化されたアカウントは拒否
	if !user.IsActive {
		return false
	}

	//token_version が一致しなければ強制ログアウト扱い（401）
	return user.TokenVersion == tv
}
