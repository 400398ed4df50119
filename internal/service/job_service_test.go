package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spidersno1/job-accelerator/internal/model"
)

func seedJob(t *testing.T, svc *JobService, title, requirements string) *model.Job {
	t.Helper()
	job := &model.Job{
		Title:        title,
		Company:      "测试公司",
		Requirements: requirements,
		IsActive:     true,
	}
	require.NoError(t, svc.CreateJob(job))
	return job
}

func TestListJobsPagination(t *testing.T) {
	svc := &JobService{db: newTestDB(t)}

	for i := 0; i < 25; i++ {
		seedJob(t, svc, "Go后端工程师", "")
	}
	inactive := seedJob(t, svc, "已下架岗位", "")
	require.NoError(t, svc.DeactivateJob(inactive.ID))

	jobs, total, err := svc.ListJobs(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, jobs, 10)

	jobs, _, err = svc.ListJobs(3, 10)
	require.NoError(t, err)
	assert.Len(t, jobs, 5)
}

func TestScoreMatch(t *testing.T) {
	requirements := []jobRequirement{
		{Name: "Go", Category: "编程语言", Level: 60},
		{Name: "Gin", Category: "框架", Level: 50},
		{Name: "算法能力", Category: "算法", Level: 70},
	}
	skills := []model.Skill{
		{Name: "Go", Category: "编程语言", Proficiency: 80},
		{Name: "算法能力", Category: "算法", Proficiency: 35},
	}

	result := scoreMatch(1, requirements, skills)

	// Go 达标(比值封顶 1),Gin 缺失计 0,算法 35/70=0.5
	expected := (1.0*0.3 + 0*0.25 + 0.5*0.2) / (0.3 + 0.25 + 0.2) * 100
	assert.InDelta(t, expected, result.MatchScore, 1e-9)
	assert.ElementsMatch(t, []string{"Gin", "算法能力"}, result.Gaps)
	require.Len(t, result.Details, 3)
	assert.True(t, result.Details[0].Matched)
}

func TestScoreMatchNoRequirements(t *testing.T) {
	result := scoreMatch(1, nil, nil)
	assert.InDelta(t, 50, result.MatchScore, 1e-9)
	assert.Empty(t, result.Gaps)
}

func TestMatchUserPersists(t *testing.T) {
	db := newTestDB(t)
	svc := &JobService{db: db}

	job := seedJob(t, svc, "Go后端工程师",
		`[{"name":"Go","category":"编程语言","level":60}]`)
	skills := []model.Skill{{Name: "Go", Category: "编程语言", Proficiency: 90}}

	result, err := svc.MatchUser(1, job.ID, skills)
	require.NoError(t, err)
	assert.InDelta(t, 100, result.MatchScore, 1e-9)

	var match model.JobMatch
	require.NoError(t, db.Where("user_id = ? AND job_id = ?", 1, job.ID).First(&match).Error)
	assert.InDelta(t, 100, match.MatchScore, 1e-9)
	assert.Contains(t, match.SkillMatch, "Go")
}

func TestRecommendationsRanked(t *testing.T) {
	svc := &JobService{db: newTestDB(t)}

	good := seedJob(t, svc, "Go后端工程师",
		`[{"name":"Go","category":"编程语言","level":60}]`)
	bad := seedJob(t, svc, "前端工程师",
		`[{"name":"React","category":"框架","level":60}]`)
	skills := []model.Skill{{Name: "Go", Category: "编程语言", Proficiency: 90}}

	results, err := svc.Recommendations(1, skills, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, good.ID, results[0].JobID)
	assert.Equal(t, bad.ID, results[1].JobID)
	assert.Greater(t, results[0].MatchScore, results[1].MatchScore)
}

func TestMarkApplied(t *testing.T) {
	db := newTestDB(t)
	svc := &JobService{db: db}

	job := seedJob(t, svc, "Go后端工程师", "")
	_, err := svc.MatchUser(1, job.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.MarkApplied(1, job.ID))

	var match model.JobMatch
	require.NoError(t, db.Where("user_id = ? AND job_id = ?", 1, job.ID).First(&match).Error)
	assert.True(t, match.IsApplied)
	assert.NotNil(t, match.AppliedDate)
}
