package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"donation-platform.backend/internal/config"
	"donation-platform.backend/internal/domain/entities"
	"donation-platform.backend/internal/infrastructure/repositories"
	"donation-platform.backend/pkg/crypto"
)

func init() {
	crypto.SetCost(bcrypt.MinCost)
}

// testDeps points every command at one shared in-memory database. The
// keeper connection holds the database open between commands.
func testDeps(t *testing.T) (seedDeps, *gorm.DB, *bytes.Buffer) {
	t.Helper()
	dsn := fmt.Sprintf("file:seed_%d?mode=memory&cache=shared", time.Now().UnixNano())
	keeper, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := keeper.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	out := &bytes.Buffer{}
	return seedDeps{
		loadEnv: func() error { return os.ErrNotExist },
		loadCfg: func() *config.Config {
			return &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", Path: dsn}}
		},
		openDB: func(config.DatabaseConfig) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
		},
		out: out,
	}, keeper, out
}

func run(t *testing.T, deps seedDeps, args ...string) error {
	t.Helper()
	cmd := newRootCmd(deps)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestParseCharitySeeds_Default(t *testing.T) {
	seeds, err := parseCharitySeeds(defaultCharities)
	require.NoError(t, err)
	require.NotEmpty(t, seeds)
	for _, s := range seeds {
		assert.NotEmpty(t, s.Name)
		assert.True(t, entities.CharityCategory(s.Category).Valid(), s.Category)
		assert.Equal(t, "verified", s.VerificationStatus)
	}
}

func TestParseCharitySeeds_Errors(t *testing.T) {
	_, err := parseCharitySeeds([]byte("charities: [oops"))
	assert.Error(t, err)

	_, err = parseCharitySeeds([]byte("charities: []"))
	assert.EqualError(t, err, "seed file has no charities")
}

func TestCharitiesCommand_IsIdempotent(t *testing.T) {
	deps, db, out := testDeps(t)

	require.NoError(t, run(t, deps, "charities"))
	seeds, _ := parseCharitySeeds(defaultCharities)
	assert.Contains(t, out.String(), fmt.Sprintf("Added %d charities, skipped 0 existing", len(seeds)))

	out.Reset()
	require.NoError(t, run(t, deps, "charities"))
	assert.Contains(t, out.String(), fmt.Sprintf("Added 0 charities, skipped %d existing", len(seeds)))

	count, err := repositories.NewCharityRepository(db).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(len(seeds)), count)
}

func TestCharitiesCommand_FileAndReset(t *testing.T) {
	deps, db, out := testDeps(t)
	require.NoError(t, run(t, deps, "charities"))

	file := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`charities:
  - name: Local Shelter
    description: Beds for the night
    category: humanitarian
    verificationStatus: pending
`), 0o644))

	out.Reset()
	require.NoError(t, run(t, deps, "charities", "--file", file, "--reset"))
	assert.Contains(t, out.String(), "Cleared existing charities and donations")
	assert.Contains(t, out.String(), "Added 1 charities, skipped 0 existing")

	all, err := repositories.NewCharityRepository(db).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Local Shelter", all[0].Name)
	assert.Equal(t, entities.VerificationPending, all[0].VerificationStatus)
}

func TestCharitiesCommand_InvalidSeed(t *testing.T) {
	deps, _, _ := testDeps(t)
	file := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(file, []byte("charities:\n  - name: Bad\n    category: sports\n"), 0o644))

	err := run(t, deps, "charities", "-f", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `charity "Bad"`)
}

func TestCharitiesCommand_MissingFile(t *testing.T) {
	deps, _, _ := testDeps(t)
	err := run(t, deps, "charities", "--file", "/does/not/exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestAdminCommand_CreatesAndPromotes(t *testing.T) {
	deps, db, out := testDeps(t)
	users := repositories.NewUserRepository(db)

	require.NoError(t, run(t, deps, "admin", "--email", "Boss@Example.com", "--password", "secret123", "--name", "Boss"))
	assert.Contains(t, out.String(), "Created user boss@example.com")

	user, err := users.GetByEmail(context.Background(), "boss@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.True(t, crypto.CheckPassword("secret123", user.PasswordHash))

	require.NoError(t, users.SetAdmin(context.Background(), user.ID, false))
	out.Reset()
	require.NoError(t, run(t, deps, "admin", "--email", "boss@example.com"))
	assert.Contains(t, out.String(), "Promoting existing user")

	user, err = users.GetByEmail(context.Background(), "boss@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestAdminCommand_Validation(t *testing.T) {
	deps, _, _ := testDeps(t)

	assert.EqualError(t, run(t, deps, "admin"), "--email is required")

	err := run(t, deps, "admin", "--email", "new@example.com", "--password", "123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")
}

func TestConnect_OpenError(t *testing.T) {
	deps, _, _ := testDeps(t)
	deps.openDB = func(config.DatabaseConfig) (*gorm.DB, error) { return nil, errors.New("refused") }

	err := run(t, deps, "admin", "--email", "a@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect db")
}
