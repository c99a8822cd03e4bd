package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaoyan-advisor/internal/common/logger"
	"kaoyan-advisor/internal/models"
	"kaoyan-advisor/internal/refdata"
)

func newTestEngine(t *testing.T, store refdata.Store, mutate func(*Options)) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.TopK = 0
	opts.Clock = func() time.Time { return fixedNow }
	if mutate != nil {
		mutate(&opts)
	}
	e, err := NewEngine(store, opts, logger.NewTestLogger(t))
	require.NoError(t, err)
	return e
}

func flatten(res *models.TierResult) []models.ScoredCandidate {
	var out []models.ScoredCandidate
	out = append(out, res.Impossible...)
	out = append(out, res.Reach...)
	out = append(out, res.Match...)
	out = append(out, res.Safety...)
	return out
}

func byKey(res *models.TierResult) map[string]models.ScoredCandidate {
	out := make(map[string]models.ScoredCandidate)
	for _, sc := range flatten(res) {
		out[sc.Candidate.Key()] = sc
	}
	return out
}

func TestNewEngine_Validation(t *testing.T) {
	store := refdata.NewMemoryStore(refdata.Dataset{})

	_, err := NewEngine(nil, DefaultOptions(), nil)
	assert.Error(t, err)

	opts := DefaultOptions()
	opts.Logistic.K = 0
	_, err = NewEngine(store, opts, nil)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.Thresholds = Thresholds{Reach: 80, Match: 45, Safety: 75}
	_, err = NewEngine(store, opts, nil)
	assert.Error(t, err)

	_, err = NewEngine(store, DefaultOptions(), nil)
	assert.NoError(t, err)
}

func TestEngine_ScoresWithinRange(t *testing.T) {
	e := newTestEngine(t, fixtureStore(), nil)
	candidates := fixtureCandidates()
	target := models.TargetPreferences{WorkCities: []models.Area{{Province: "浙江省", City: "杭州"}}}

	res, err := e.ScoreCandidates(context.Background(), fixtureUser(), target, candidates)
	require.NoError(t, err)
	assert.Equal(t, len(candidates), res.TotalConsidered)

	all := flatten(res)
	require.Len(t, all, len(candidates))
	for _, sc := range all {
		require.Len(t, sc.Dimensions, len(models.AllDimensions))
		for _, d := range sc.Dimensions {
			assert.True(t, d.Total >= 0 && d.Total <= 100, "%s %s total %v", sc.Candidate.Key(), d.Dimension, d.Total)
			for _, s := range d.Scores {
				assert.True(t, s.Score >= 0 && s.Score <= 100, "%s %s score %v", d.Dimension, s.Name, s.Score)
			}
		}
		assert.True(t, sc.CompositeScore >= 0 && sc.CompositeScore <= 100)
		assert.Equal(t, DefaultThresholds().Classify(sc.Probability), sc.Tier)
	}
}

func TestEngine_ParallelMatchesSequential(t *testing.T) {
	candidates := fixtureCandidates()
	seq := newTestEngine(t, fixtureStore(), nil)
	par := newTestEngine(t, fixtureStore(), func(o *Options) { o.Parallelism = 4 })

	a, err := seq.ScoreCandidates(context.Background(), fixtureUser(), models.TargetPreferences{}, candidates)
	require.NoError(t, err)
	b, err := par.ScoreCandidates(context.Background(), fixtureUser(), models.TargetPreferences{}, candidates)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEngine_MissingDataFallsBackToDefaults(t *testing.T) {
	rec := &countingRecorder{}
	e := newTestEngine(t, refdata.NewMemoryStore(refdata.Dataset{}), func(o *Options) { o.Recorder = rec })

	bare := models.CandidateSchoolMajor{SchoolName: "无数据学院", MajorCode: "0000"}
	var (
		res *models.TierResult
		err error
	)
	require.NotPanics(t, func() {
		res, err = e.ScoreCandidates(context.Background(), models.UserProfile{}, models.TargetPreferences{}, []models.CandidateSchoolMajor{bare})
	})
	require.NoError(t, err)

	all := flatten(res)
	require.Len(t, all, 1)
	for _, d := range all[0].Dimensions {
		for _, s := range d.Scores {
			if d.Dimension == models.DimensionAdmission && s.Name == English {
				assert.Equal(t, models.SourceData, s.Source)
				continue
			}
			assert.Equal(t, models.SourceDefault, s.Source, "%s/%s", d.Dimension, s.Name)
			assert.NotEmpty(t, s.MissingReason)
		}
	}
	assert.Equal(t, 1, rec.counts["admission/competition"])
	assert.Equal(t, 1, rec.counts["major/major_ranking"])
}

func TestEngine_LowerCompetitionRaisesProbability(t *testing.T) {
	e := newTestEngine(t, refdata.NewMemoryStore(refdata.Dataset{}), nil)

	easy := candidate("甲大学", "0001", "数学", "北京", "北京")
	easy.AdmitRatios = []models.AdmitRatioRecord{{Year: "2023", Ratio: "2:1"}}
	hard := candidate("甲大学", "0002", "数学", "北京", "北京")
	hard.AdmitRatios = []models.AdmitRatioRecord{{Year: "2023", Ratio: "20:1"}}

	res, err := e.ScoreCandidates(context.Background(), fixtureUser(), models.TargetPreferences{}, []models.CandidateSchoolMajor{easy, hard})
	require.NoError(t, err)

	got := byKey(res)
	a, b := got[easy.Key()], got[hard.Key()]
	assert.Greater(t, a.AdmissionScore, b.AdmissionScore)
	assert.Greater(t, a.Probability, b.Probability)
}

func TestEngine_AdmissionOnlyWeights(t *testing.T) {
	e := newTestEngine(t, fixtureStore(), func(o *Options) {
		o.Weights = map[string]float64{
			"admission":             1,
			"location":              0,
			"major":                 0,
			"advanced_study":        0,
			"system_employment":     0,
			"non_system_employment": 0,
		}
	})

	res, err := e.ScoreCandidates(context.Background(), fixtureUser(), models.TargetPreferences{}, fixtureCandidates())
	require.NoError(t, err)
	for _, sc := range flatten(res) {
		assert.InDelta(t, sc.AdmissionScore, sc.CompositeScore, 1e-9)
	}
}

func TestEngine_CallerWeightsOverrideConfig(t *testing.T) {
	e := newTestEngine(t, fixtureStore(), func(o *Options) {
		o.Weights = map[string]float64{"admission": 0}
	})
	target := models.TargetPreferences{Weights: []models.Weight{
		{Name: "admission", Value: 1},
		{Name: "location", Value: 0},
		{Name: "major", Value: 0},
		{Name: "advanced_study", Value: 0},
		{Name: "system_employment", Value: 0},
		{Name: "non_system_employment", Value: 0},
	}}

	res, err := e.ScoreCandidates(context.Background(), fixtureUser(), target, fixtureCandidates())
	require.NoError(t, err)
	for _, sc := range flatten(res) {
		assert.InDelta(t, sc.AdmissionScore, sc.CompositeScore, 1e-9)
	}
}

func TestEngine_NoCandidatesAfterFilter(t *testing.T) {
	e := newTestEngine(t, fixtureStore(), nil)

	res, err := e.ScoreCandidates(context.Background(), fixtureUser(),
		models.TargetPreferences{Majors: []string{"哲学"}}, fixtureCandidates())
	require.NoError(t, err)

	assert.Equal(t, NoCandidatesMessage, res.Message)
	assert.NotNil(t, res.Reach)
	assert.NotNil(t, res.Match)
	assert.NotNil(t, res.Safety)
	assert.Empty(t, flatten(res))
	assert.Equal(t, 0, res.TotalConsidered)
}

func TestEngine_LevelFilterExcludesBeforeScoring(t *testing.T) {
	e := newTestEngine(t, fixtureStore(), nil)

	res, err := e.ScoreCandidates(context.Background(), fixtureUser(),
		models.TargetPreferences{Levels: []string{"985"}}, fixtureCandidates())
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalConsidered)
	for _, sc := range flatten(res) {
		assert.Equal(t, "1", sc.Candidate.Is985)
	}
}

func TestEngine_TopK(t *testing.T) {
	e := newTestEngine(t, refdata.NewMemoryStore(refdata.Dataset{}), func(o *Options) { o.TopK = 3 })

	var candidates []models.CandidateSchoolMajor
	for i := 0; i < 10; i++ {
		c := candidate("乙大学", string(rune('a'+i)), "数学", "北京", "北京")
		candidates = append(candidates, c)
	}

	res, err := e.ScoreCandidates(context.Background(), fixtureUser(), models.TargetPreferences{}, candidates)
	require.NoError(t, err)
	assert.Equal(t, 10, res.TotalConsidered)
	for _, tier := range []models.Tier{models.TierImpossible, models.TierReach, models.TierMatch, models.TierSafety} {
		assert.LessOrEqual(t, len(res.Bucket(tier)), 3)
	}
}

func TestEngine_CancelledContext(t *testing.T) {
	e := newTestEngine(t, fixtureStore(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ScoreCandidates(ctx, fixtureUser(), models.TargetPreferences{}, fixtureCandidates())
	assert.ErrorIs(t, err, context.Canceled)
}

type panickingCalculator struct{}

func (panickingCalculator) Dimension() models.Dimension { return models.DimensionLocation }

func (panickingCalculator) CalculateTotal(*models.CandidateSchoolMajor) models.DimensionResult {
	var m map[string]int
	m["boom"]++
	return models.DimensionResult{}
}

func TestEngine_CalculatorPanicUsesDefaults(t *testing.T) {
	e := newTestEngine(t, fixtureStore(), nil)
	c := candidate("浙江大学", "081200", "计算机科学与技术", "浙江省", "杭州")

	res := e.calculateDimension(&Request{}, panickingCalculator{}, &c)

	assert.Equal(t, models.DimensionLocation, res.Dimension)
	require.Len(t, res.Scores, len(LocationWeights))
	for _, s := range res.Scores {
		assert.Equal(t, models.SourceDefault, s.Source)
	}
	assert.InDelta(t, 50*0.15+40*0.25+50*0.2+50*0.15+40*0.25, res.Total, 1e-9)
}
