package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storycircle/backend/internal/models"
	"github.com/storycircle/backend/internal/repositories"
	"github.com/storycircle/backend/internal/search"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Follow{},
		&models.Platform{},
	))
	require.NoError(t, repositories.NewPostgresRoleRepository(db).SeedRoles(context.Background()))
	return db
}

func registerHandlerUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	repo := repositories.NewPostgresUserRepository(db, "")
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// authedContext builds an echo context carrying the JWT claims the auth
// middleware would have set.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID uint) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user", &models.JwtCustomClaims{UserID: userID})
	return c
}

func newPlatformHandler(db *gorm.DB) (*PlatformHandler, *repositories.ContentRepository[models.Platform, *models.Platform]) {
	syncer := search.NewSynchronizer(nil, zerolog.Nop())
	repo := repositories.NewContentRepository[models.Platform](db, syncer)
	userRepo := repositories.NewPostgresUserRepository(db, "")
	return NewPlatformHandler(repo, userRepo, 10), repo
}

func TestPlatformCreateUsesDescriptionField(t *testing.T) {
	db := setupHandlerDB(t)
	author := registerHandlerUser(t, db, "alice")
	h, repo := newPlatformHandler(db)

	e := echo.New()
	body := `{"city":"Oslo","category":"rail","title":"Night train","description":"Sleeper service to Bergen."}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/platforms", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, author.ID)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	platforms, total, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, "Sleeper service to Bergen.", platforms[0].Description)
}

func TestPlatformUpdateAcceptsDescriptionField(t *testing.T) {
	db := setupHandlerDB(t)
	author := registerHandlerUser(t, db, "alice")
	h, repo := newPlatformHandler(db)

	platform := &models.Platform{UserID: author.ID, City: "Oslo", Category: "rail", Title: "Night train", Description: "old"}
	require.NoError(t, repo.Create(context.Background(), platform))

	// the same field name creation uses must work for updates too
	e := echo.New()
	body := `{"description":"Now with a dining car."}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/platforms/"+strconv.Itoa(int(platform.ID)), strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, author.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(platform.ID)))

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	updated, err := repo.GetByID(context.Background(), platform.ID)
	require.NoError(t, err)
	assert.Equal(t, "Now with a dining car.", updated.Description)
}
