package postgres

import (
	"testing"

	"github.com/VitaminP8/campusconnect/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBWithConnection(t *testing.T) {
	// Сохраняем текущее значение DB
	originalDB := DB
	defer func() { DB = originalDB }()

	testDB, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer testDB.Close()

	InitDBWithConnection(testDB)
	assert.Equal(t, testDB, GetDB())
}

func TestCloseDBWithNilDB(t *testing.T) {
	originalDB := DB
	defer func() { DB = originalDB }()

	DB = nil
	assert.NoError(t, CloseDB())
}

func TestNextPosition(t *testing.T) {
	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	pos, err := nextPosition(DB, &models.Post{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), pos)

	require.NoError(t, DB.Create(&models.Post{ID: "p1", Position: 7}).Error)

	pos, err = nextPosition(DB, &models.Post{})
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)
}

func TestEncodeDecodeList(t *testing.T) {
	assert.Equal(t, "", encodeList(nil))
	assert.Nil(t, decodeList(""))
	assert.Nil(t, decodeList("not json"))
	assert.Equal(t, []string{"AI", "Ethics"}, decodeList(encodeList([]string{"AI", "Ethics"})))
}

// Примечание: InitDB с реальным подключением не тестируется, нужна настоящая PostgreSQL база данных.
