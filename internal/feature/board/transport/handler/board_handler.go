// Package handler はboardフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/feature/board/transport/http/dto"
	httphandler "whoami_backend/internal/platform/http/handler"
	jwtmw "whoami_backend/internal/platform/jwt"
)

// BoardUsecase はボード閲覧のユースケースを定義します。
type BoardUsecase interface {
	ViewBoard(ctx context.Context, viewer *entity.User, username string) (*entity.User, error)
}

// BoardHandler はボード閲覧のHTTPリクエストを処理します。
type BoardHandler struct {
	boards BoardUsecase
}

// NewBoardHandler はBoardHandlerの新しいインスタンスを生成します。
func NewBoardHandler(boards BoardUsecase) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// Show は GET /board/:username を処理します。
// AuthOptionalミドルウェアの後に登録し、ログインしていればそのユーザーを閲覧者として扱います。
// - 閲覧可能: 200
// - 対象ユーザーが存在しない・無効化されている: 400
// - 非公開で未ログイン: 401
// - 非公開で承認済みフォロワーでない: 403
func (h *BoardHandler) Show(c *gin.Context) {
	viewer, _ := jwtmw.CurrentUser(c)
	username := c.Param("username")

	target, err := h.boards.ViewBoard(c.Request.Context(), viewer, username)
	if err != nil {
		var ae *domain.AuthError
		if errors.As(err, &ae) && ae.Kind == domain.KindNotFound {
			err = domain.BadRequest(ae.Reason)
		}
		slog.Warn("board view denied", "error", err, "username", username, "remote_addr", c.ClientIP())
		httphandler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BoardRes{
		UserID:   target.ID.String(),
		Username: target.Username,
		Public:   target.Public,
	})
}
