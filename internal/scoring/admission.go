package scoring

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"kaoyan-advisor/internal/models"
)

// AdmissionCalculator estimates how reachable a candidate is for the user.
type AdmissionCalculator struct {
	req *Request
}

func NewAdmissionCalculator(req *Request) *AdmissionCalculator {
	return &AdmissionCalculator{req: req}
}

func (a *AdmissionCalculator) Dimension() models.Dimension {
	return models.DimensionAdmission
}

func (a *AdmissionCalculator) CalculateTotal(c *models.CandidateSchoolMajor) models.DimensionResult {
	w := AdmissionWeights
	return evaluateDimension(a.req, models.DimensionAdmission, c.Key(), []metric{
		{w.get(PreparationTime), a.PreparationTime},
		{w.get(English), a.English},
		{w.get(MajorMatch), func() Result { return a.MajorMatch(c) }},
		{w.get(Competition), func() Result { return a.Competition(c) }},
		{w.get(EnrollmentSize), func() Result { return a.EnrollmentSize(c) }},
		{w.get(SchoolGap), func() Result { return a.SchoolGap(c) }},
		{w.get(ClassRank), a.ClassRank},
	})
}

// gradeOffsets maps grade keywords to how many exam cycles lie between the
// grade and the user's own sitting. Grades match by substring, so "大四学生"
// counts as 大四; the first match wins.
var gradeOffsets = []struct {
	keyword string
	years   int
}{
	{"大四", 0}, {"应届", 0}, {"senior", 0},
	{"已毕业", 0}, {"往届", 0}, {"graduated", 0},
	{"大三", 1}, {"junior", 1},
	{"大二", 2}, {"sophomore", 2},
	{"大一", 3}, {"freshman", 3},
}

func yearsBeforeExam(grade string) (int, bool) {
	grade = strings.ToLower(strings.TrimSpace(grade))
	for _, g := range gradeOffsets {
		if strings.Contains(grade, g.keyword) {
			return g.years, true
		}
	}
	return 0, false
}

// DaysUntilExam returns the days from now to the user's exam day. The exam
// is held on December 23 and rolls to the next year once that day has passed.
func DaysUntilExam(now time.Time, grade string) (int, bool) {
	offset, ok := yearsBeforeExam(grade)
	if !ok {
		return 0, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	exam := time.Date(today.Year(), ExamMonth, ExamDay, 0, 0, 0, 0, time.UTC)
	if today.After(exam) {
		exam = exam.AddDate(1, 0, 0)
	}
	exam = exam.AddDate(offset, 0, 0)

	return int(exam.Sub(today).Hours() / 24), true
}

func (a *AdmissionCalculator) PreparationTime() Result {
	if strings.TrimSpace(a.req.User.Grade) == "" {
		return missing(ReasonNoProfile, "grade not provided")
	}
	days, ok := DaysUntilExam(a.req.now(), a.req.User.Grade)
	if !ok {
		return missing(ReasonInvalidValue, fmt.Sprintf("unrecognised grade %q", a.req.User.Grade))
	}

	res := scored(lookupBand(preparationBands, float64(days)), fmt.Sprintf("%d days until the exam", days))
	raw := float64(days)
	res.RawValue = &raw
	return res
}

func (a *AdmissionCalculator) English() Result {
	cet := strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(a.req.User.CET))
	switch {
	case strings.Contains(cet, "六级") || strings.Contains(cet, "cet6"):
		return scored(EnglishCET6, "passed CET-6")
	case strings.Contains(cet, "四级") || strings.Contains(cet, "cet4"):
		return scored(EnglishCET4, "passed CET-4")
	default:
		return scored(EnglishNone, "no English certificate")
	}
}

func (a *AdmissionCalculator) MajorMatch(c *models.CandidateSchoolMajor) Result {
	userMajor := strings.TrimSpace(a.req.User.Major)
	if userMajor == "" {
		return missing(ReasonNoProfile, "undergraduate major not provided")
	}
	target := strings.TrimSpace(c.Major)
	if userMajor == target {
		return scored(MajorMatchExact, "same major as undergraduate")
	}

	var userDirs, targetDirs []string
	if a.req.Store != nil {
		userDirs = a.req.Store.GetMajorDirections(userMajor)
		targetDirs = a.req.Store.GetMajorDirections(target)
	}
	if contains(userDirs, target) || contains(targetDirs, userMajor) || intersects(userDirs, targetDirs) {
		return scored(MajorMatchInDirection, "major is a natural progression of the undergraduate major")
	}
	return scored(MajorMatchCross, "cross-discipline application")
}

func (a *AdmissionCalculator) Competition(c *models.CandidateSchoolMajor) Result {
	if ratio, year, ok := LatestAdmitRatio(c.AdmitRatios); ok {
		res := scored(lookupBand(competitionBands, ratio), fmt.Sprintf("%s applicant/admit ratio %.1f:1", year, ratio))
		res.RawValue = &ratio
		return res
	}

	if a.req.Store != nil {
		if ratio, ok := a.req.Store.GetAdmitRatioAverage(c.SchoolName, c.Department); ok && ratio > 0 {
			res := scored(lookupBand(competitionBands, ratio), fmt.Sprintf("department average ratio %.1f:1", ratio))
			res.RawValue = &ratio
			return res
		}
	}

	fallback := competitionLevelDefaults[a.candidateLevel(c)]
	res := missing(ReasonNoValue, "no admit ratio history, estimated from school tier")
	res.Fallback = &fallback
	return res
}

var ratioSeparators = strings.NewReplacer("：", ":", " ", "")

// LatestAdmitRatio returns applicants per admit for the most recent year
// with usable numbers.
func LatestAdmitRatio(records []models.AdmitRatioRecord) (float64, string, bool) {
	sorted := make([]models.AdmitRatioRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return yearOf(string(sorted[i].Year)) > yearOf(string(sorted[j].Year))
	})

	for _, r := range sorted {
		if r.Applicants > 0 && r.Admits > 0 {
			return r.Applicants / r.Admits, string(r.Year), true
		}
		if v, ok := parseRatio(r.Ratio); ok {
			return v, string(r.Year), true
		}
	}
	return 0, "", false
}

// parseRatio reads "15:1", "15" or an admit rate "9.09%" as applicants per
// admit. Rates outside (0, 100] are rejected.
func parseRatio(s string) (float64, bool) {
	s = ratioSeparators.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if rate := strings.TrimRight(s, "%％"); rate != s {
		pct, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
		if err != nil || pct <= 0 || pct > 100 {
			return 0, false
		}
		return 100 / pct, true
	}
	parts := strings.SplitN(s, ":", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil || num <= 0 {
		return 0, false
	}
	if len(parts) == 2 {
		den, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || den <= 0 {
			return 0, false
		}
		num /= den
	}
	return num, true
}

func yearOf(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return y
}

var nonDigits = regexp.MustCompile(`\D`)

// PlannedAdmits sums the quota of every research direction after stripping
// non-digit characters from each quota string.
func PlannedAdmits(directions []models.ResearchDirection) (int, bool) {
	total, found := 0, false
	for _, d := range directions {
		digits := nonDigits.ReplaceAllString(d.Quota, "")
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		total += n
		found = true
	}
	return total, found
}

func (a *AdmissionCalculator) EnrollmentSize(c *models.CandidateSchoolMajor) Result {
	total, ok := PlannedAdmits(c.Directions)
	if !ok {
		return missing(ReasonNoValue, "no enrollment quota published")
	}
	res := scored(lookupBand(enrollmentBands, float64(total)), fmt.Sprintf("%d planned admits", total))
	raw := float64(total)
	res.RawValue = &raw
	return res
}

func (a *AdmissionCalculator) SchoolGap(c *models.CandidateSchoolMajor) Result {
	school := strings.TrimSpace(a.req.User.School)
	if school == "" {
		return missing(ReasonNoProfile, "undergraduate school not provided")
	}
	userLevel, ok := a.knownLevel(school)
	if !ok {
		return missing(ReasonNoRecord, fmt.Sprintf("tier of %s unknown", school))
	}

	gap := a.candidateLevel(c) - userLevel
	res := scored(schoolGapScore(gap), fmt.Sprintf("school tier gap %+d", gap))
	raw := float64(gap)
	res.RawValue = &raw
	return res
}

func (a *AdmissionCalculator) knownLevel(school string) (int, bool) {
	if IsC9(school) {
		return LevelC9, true
	}
	if a.req.Store == nil {
		return 0, false
	}
	lvl, ok := a.req.Store.GetSchoolLevel(school)
	if !ok {
		return 0, false
	}
	return levelOf(lvl), true
}

func (a *AdmissionCalculator) candidateLevel(c *models.CandidateSchoolMajor) int {
	if lvl, ok := a.knownLevel(c.SchoolName); ok {
		return lvl
	}
	switch {
	case c.Is985 == "1":
		return Level985
	case c.Is211 == "1":
		return Level211
	default:
		return LevelOther
	}
}

func levelOf(l *models.SchoolLevel) int {
	switch {
	case l.IsC9:
		return LevelC9
	case l.Is985:
		return Level985
	case l.Is211:
		return Level211
	case l.IsFirstTier:
		return LevelFirstTier
	default:
		return LevelOther
	}
}

var rankNoise = strings.NewReplacer("前", "", "%", "", "％", "", "top", "", "TOP", "", "Top", "", " ", "")

func (a *AdmissionCalculator) ClassRank() Result {
	rank := strings.TrimSpace(a.req.User.Rank)
	if rank == "" {
		return missing(ReasonNoProfile, "class rank not provided")
	}

	pct, err := strconv.ParseFloat(rankNoise.Replace(rank), 64)
	switch {
	case err != nil:
		return scored(ClassRankOther, "class rank outside the top 50%")
	case pct <= 10:
		return scored(ClassRankTop10, "class rank in the top 10%")
	case pct <= 20:
		return scored(ClassRankTop20, "class rank in the top 20%")
	case pct <= 50:
		return scored(ClassRankTop50, "class rank in the top 50%")
	default:
		return scored(ClassRankOther, "class rank outside the top 50%")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.TrimSpace(v) == s {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[strings.TrimSpace(v)] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[strings.TrimSpace(v)]; ok {
			return true
		}
	}
	return false
}
