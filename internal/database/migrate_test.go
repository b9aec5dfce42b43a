package database

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	upErr      error
	downErr    error
	version    uint
	dirty      bool
	versionErr error
	srcErr     error
	dbErr      error
}

func (f *fakeRunner) Up() error                    { return f.upErr }
func (f *fakeRunner) Down() error                  { return f.downErr }
func (f *fakeRunner) Version() (uint, bool, error) { return f.version, f.dirty, f.versionErr }
func (f *fakeRunner) Close() (error, error)        { return f.srcErr, f.dbErr }

func TestMigrationFilesArePaired(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	ups := map[string]bool{}
	downs := map[string]bool{}

	for _, entry := range entries {
		name := entry.Name()
		require.Regexp(t, pattern, name)

		base := strings.TrimSuffix(strings.TrimSuffix(name, ".up.sql"), ".down.sql")
		if strings.HasSuffix(name, ".up.sql") {
			ups[base] = true
		} else {
			downs[base] = true
		}
	}

	require.Len(t, ups, 4)
	assert.Equal(t, ups, downs)
	assert.True(t, ups["000001_create_organizations"])
	assert.True(t, ups["000004_create_media"])
}

func TestMigrationsCarryConstraints(t *testing.T) {
	members, err := migrationsFS.ReadFile("migrations/000002_create_members.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(members), "ON DELETE CASCADE")
	assert.Contains(t, string(members), "contact             TEXT NOT NULL UNIQUE")
	assert.Contains(t, string(members), "date_of_birth <= CURRENT_DATE")

	media, err := migrationsFS.ReadFile("migrations/000004_create_media.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(media), "owner_kind IN ('organization', 'member')")
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/app", migrateURL("postgres://u:p@db:5432/app"))
	assert.Equal(t, "pgx5://u:p@db:5432/app", migrateURL("postgresql://u:p@db:5432/app"))
	assert.Equal(t, "pgx5://db/app", migrateURL("pgx5://db/app"))
}

func TestNewMigratorRejectsUnknownScheme(t *testing.T) {
	_, err := NewMigrator("badscheme://localhost:5432/app")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize migrator")
}

func TestMigratorUp(t *testing.T) {
	m := &Migrator{m: &fakeRunner{upErr: migrate.ErrNoChange, version: 4}}
	require.NoError(t, m.Up())

	m = &Migrator{m: &fakeRunner{upErr: errors.New("syntax error")}}
	require.ErrorContains(t, m.Up(), "migrate up")
}

func TestMigratorDown(t *testing.T) {
	m := &Migrator{m: &fakeRunner{downErr: migrate.ErrNoChange}}
	require.NoError(t, m.Down())

	m = &Migrator{m: &fakeRunner{downErr: errors.New("locked")}}
	require.ErrorContains(t, m.Down(), "migrate down")
}

func TestMigratorVersion(t *testing.T) {
	m := &Migrator{m: &fakeRunner{versionErr: migrate.ErrNilVersion}}
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	m = &Migrator{m: &fakeRunner{version: 3, dirty: true}}
	version, dirty, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
	assert.True(t, dirty)
}

func TestMigratorCloseJoinsErrors(t *testing.T) {
	srcErr := errors.New("source")
	dbErr := errors.New("database")

	m := &Migrator{m: &fakeRunner{srcErr: srcErr, dbErr: dbErr}}
	err := m.Close()
	require.ErrorIs(t, err, srcErr)
	require.ErrorIs(t, err, dbErr)

	m = &Migrator{m: &fakeRunner{}}
	require.NoError(t, m.Close())
}
