package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveMenus(t *testing.T) {
	t.Run("tenant sees shared and own entries", func(t *testing.T) {
		sql, args := activeMenus("ACME").Where("pid = 0").OrderBy("sort ASC, id ASC").Page(15, 0).Build()
		assert.Equal(t,
			"SELECT "+menuColumns+" FROM ntp_agent_menu"+
				" WHERE status = $1 AND (group_prefix IS NULL OR group_prefix = '' OR group_prefix = $2) AND pid = 0"+
				" ORDER BY sort ASC, id ASC LIMIT $3",
			sql)
		assert.Equal(t, []any{1, "ACME", 15}, args)
	})

	t.Run("no tenant sees shared entries only", func(t *testing.T) {
		sql, args := activeMenus("").BuildCount()
		assert.Equal(t, "SELECT COUNT(*) FROM ntp_agent_menu WHERE status = $1 AND (group_prefix IS NULL OR group_prefix = '')", sql)
		assert.Equal(t, []any{1}, args)
	})
}
