package chathdl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"fusion_talk/internal/common"
)

func TestParseHistoryLimit(t *testing.T) {
	// Không truyền limit nghĩa là lấy toàn bộ lịch sử
	limit, err := parseHistoryLimit("")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), limit)

	limit, err = parseHistoryLimit("25")
	assert.NoError(t, err)
	assert.Equal(t, int64(25), limit)

	limit, err = parseHistoryLimit("0")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), limit)
}

func TestParseHistoryLimitInvalid(t *testing.T) {
	// Giá trị không phải số phải bị từ chối, không âm thầm cắt lịch sử
	_, err := parseHistoryLimit("abc")
	assert.Error(t, err)
	var appErr *common.Error
	assert.True(t, errors.As(err, &appErr), "Lỗi phải là *common.Error để trả về 400")
	assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)

	_, err = parseHistoryLimit("-5")
	assert.Error(t, err, "Limit âm phải bị từ chối")
}
