package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow имитирует pgx.Row без подключения к базе
type fakeRow struct {
	rank int
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.rank
	return nil
}

func TestNextRankFromRow_AppendsAfterLastRank(t *testing.T) {
	// Действие
	rank, err := nextRankFromRow(fakeRow{rank: 4})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 4, rank)
}

func TestNextRankFromRow_FirstContactStartsAtOne(t *testing.T) {
	// Действие: у пользователя еще нет контактов, запрос не вернул строк
	rank, err := nextRankFromRow(fakeRow{err: pgx.ErrNoRows})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
}

func TestNextRankFromRow_QueryErrorPropagates(t *testing.T) {
	// Подготовка
	connErr := errors.New("connection reset")

	// Действие
	_, err := nextRankFromRow(fakeRow{err: connErr})

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, connErr)
}

func TestNextRankQuery_LocksRowNotAggregate(t *testing.T) {
	// Проверки: Postgres отклоняет FOR UPDATE поверх агрегатных функций
	// (0A000), поэтому блокируется строка с максимальным рангом
	assert.NotContains(t, nextRankQuery, "MAX(")
	assert.NotContains(t, nextRankQuery, "COALESCE")
	assert.Contains(t, nextRankQuery, "ORDER BY rank DESC")
	assert.Contains(t, nextRankQuery, "LIMIT 1")
	assert.True(t, strings.Contains(nextRankQuery, "FOR UPDATE"))
}
