package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkaraca/sideout/internal/app/models/dto"
)

func TestBuildInstructorListQueryBindsAllFilters(t *testing.T) {
	filter := &dto.InstructorFilter{City: "San Diego", SkillLevel: "ADVANCED", MinRating: 4.5}

	listSQL, countSQL, listArgs, countArgs, err := buildInstructorListQuery(filter, 20, 10)
	require.NoError(t, err)

	assert.Contains(t, listSQL, "cloc.city ILIKE $2")
	assert.Contains(t, listSQL, "sl.skill_level = $3")
	assert.Contains(t, listSQL, "HAVING AVG(rv.rating) >= $4")
	assert.Contains(t, listSQL, "LIMIT $5 OFFSET $6")
	assert.NotContains(t, listSQL, "4.5")
	assert.Equal(t, []interface{}{true, "San Diego", "ADVANCED", 4.5, 10, 20}, listArgs)

	// The count statement carries the same filters but no paging
	assert.Contains(t, countSQL, "HAVING AVG(rv.rating) >= $4")
	assert.NotContains(t, countSQL, "LIMIT")
	assert.Equal(t, []interface{}{true, "San Diego", "ADVANCED", 4.5}, countArgs)
}

func TestBuildInstructorListQueryWithoutFilters(t *testing.T) {
	listSQL, countSQL, listArgs, countArgs, err := buildInstructorListQuery(nil, 0, 10)
	require.NoError(t, err)

	assert.Contains(t, listSQL, "u.is_active = $1")
	assert.NotContains(t, listSQL, "HAVING")
	assert.Contains(t, listSQL, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []interface{}{true, 10, 0}, listArgs)

	assert.NotContains(t, countSQL, "LIMIT")
	assert.Equal(t, []interface{}{true}, countArgs)
}

func TestBuildInstructorListQuerySkillLevelOnly(t *testing.T) {
	filter := &dto.InstructorFilter{SkillLevel: "BEGINNER"}

	listSQL, _, listArgs, _, err := buildInstructorListQuery(filter, 0, 10)
	require.NoError(t, err)

	assert.Contains(t, listSQL, "sl.skill_level = $2")
	assert.NotContains(t, listSQL, "cloc.city")
	assert.Equal(t, []interface{}{true, "BEGINNER", 10, 0}, listArgs)
}
