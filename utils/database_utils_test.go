package utils

import (
	"testing"

	"github.com/Luismorlan/yatube/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTempDB(t *testing.T) {
	db, dbName := CreateTempDB(t)
	assert.True(t, isTempDB(dbName))

	for _, table := range []interface{}{&model.User{}, &model.Group{}, &model.Post{}, &model.Comment{}, &model.Follow{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}

	require.NoError(t, db.Create(&model.User{Username: "leo"}).Error)
	var count int64
	db.Model(&model.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTempDBsAreIsolated(t *testing.T) {
	first, _ := CreateTempDB(t)
	second, _ := CreateTempDB(t)

	require.NoError(t, first.Create(&model.User{Username: "leo"}).Error)

	var count int64
	second.Model(&model.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestIsTempDB(t *testing.T) {
	assert.True(t, isTempDB(randomTestDBName()))
	assert.False(t, isTempDB("yatube"))
}
