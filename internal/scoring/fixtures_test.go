package scoring

import (
	"time"

	"kaoyan-advisor/internal/models"
	"kaoyan-advisor/internal/refdata"
)

func fp(v float64) *float64 { return &v }

var fixedNow = time.Date(2024, time.September, 1, 10, 0, 0, 0, time.UTC)

func candidate(school, code, major, province, city string) models.CandidateSchoolMajor {
	return models.CandidateSchoolMajor{
		SchoolName: school,
		SchoolCode: code,
		Is985:      "0",
		Is211:      "0",
		Department: "计算机学院",
		Major:      major,
		MajorCode:  code,
		Province:   province,
		City:       city,
	}
}

// fixtureStore holds three schools with mostly complete data and one with
// none at all.
func fixtureStore() *refdata.MemoryStore {
	return refdata.NewMemoryStore(refdata.Dataset{
		Schools: []models.SchoolAggregate{
			{SchoolName: "浙江大学", Rank: fp(3), OverallSatisfaction: fp(4.5), EnvironmentSatisfaction: fp(4.4),
				EmploymentRatio: fp(97), CivilServantRatio: fp(12), InstitutionRatio: fp(9), StateOwnedRatio: fp(20),
				FurtherStudyRate: fp(60), FurtherStudyNumber: fp(3500), AbroadStudyRatio: fp(15)},
			{SchoolName: "武汉大学", Rank: fp(9), OverallSatisfaction: fp(4.2), EnvironmentSatisfaction: fp(4.6),
				EmploymentRatio: fp(94), CivilServantRatio: fp(18), InstitutionRatio: fp(12), StateOwnedRatio: fp(25),
				FurtherStudyRate: fp(50), FurtherStudyNumber: fp(2800), AbroadStudyRatio: fp(9)},
			{SchoolName: "杭州电子科技大学", Rank: fp(80), OverallSatisfaction: fp(3.9),
				EmploymentRatio: fp(96), StateOwnedRatio: fp(30), FurtherStudyRate: fp(25)},
		},
		Majors: []models.MajorAggregate{
			{SchoolName: "浙江大学", MajorCode: "081200", MajorName: "计算机科学与技术", Level: "A+",
				OverallSatisfaction: fp(4.4), EmploymentSatisfaction: fp(4.5)},
			{SchoolName: "武汉大学", MajorCode: "081200", MajorName: "计算机科学与技术", Level: "A-",
				OverallSatisfaction: fp(4.1), EmploymentSatisfaction: fp(4.0)},
			{SchoolName: "杭州电子科技大学", MajorCode: "081200", MajorName: "计算机科学与技术", Level: "B+"},
		},
		EmploymentHistory: map[string][]models.YearRecord{
			"浙江大学": {
				{Year: 2022, AbroadCountries: []models.CountryShare{{Country: "美国", Share: 40}}},
				{Year: 2023, AbroadCountries: []models.CountryShare{{Country: "英国", Share: 20}, {Country: "USA", Share: 35}}},
			},
			"杭州电子科技大学": {
				{Year: 2023, CivilServantRatio: fp(5), InstitutionRatio: fp(6)},
			},
		},
		Cities: []models.CityScore{
			{City: "杭州", CostOfLiving: 45, Education: 82, Healthcare: 85},
			{City: "武汉", CostOfLiving: 70, Education: 88, Healthcare: 0},
		},
		SchoolLevels: []models.SchoolLevel{
			{SchoolName: "浙江大学", IsC9: true, Is985: true, Is211: true, IsFirstTier: true},
			{SchoolName: "武汉大学", Is985: true, Is211: true, IsFirstTier: true},
			{SchoolName: "杭州电子科技大学", IsFirstTier: true},
			{SchoolName: "浙江工业大学", IsFirstTier: true},
		},
		MajorDirections: []models.MajorDirection{
			{MajorName: "软件工程", Directions: []string{"计算机科学与技术", "软件工程"}},
		},
		AdmitRatios: []models.AdmitRatioAverage{
			{SchoolName: "武汉大学", Department: "计算机学院", Ratio: 6},
		},
	})
}

func fixtureCandidates() []models.CandidateSchoolMajor {
	zju := candidate("浙江大学", "081200", "计算机科学与技术", "浙江省", "杭州")
	zju.Is985, zju.Is211 = "1", "1"
	zju.AdmitRatios = []models.AdmitRatioRecord{
		{Year: "2022", Applicants: 1200, Admits: 100},
		{Year: "2023", Ratio: "15:1"},
	}
	zju.Directions = []models.ResearchDirection{{Name: "人工智能", Quota: "30人"}, {Name: "计算机系统结构", Quota: "（不含推免）20"}}

	whu := candidate("武汉大学", "081200", "计算机科学与技术", "湖北省", "武汉")
	whu.Is985, whu.Is211 = "1", "1"
	whu.Directions = []models.ResearchDirection{{Name: "人工智能", Quota: "12"}}

	hdu := candidate("杭州电子科技大学", "081200", "计算机科学与技术", "浙江省", "杭州")
	hdu.AdmitRatios = []models.AdmitRatioRecord{{Year: "2023", Applicants: 300, Admits: 120}}
	hdu.Directions = []models.ResearchDirection{{Name: "软件工程", Quota: "150"}}

	unknown := candidate("某某学院", "081200", "计算机科学与技术", "江西省", "南昌")

	return []models.CandidateSchoolMajor{zju, whu, hdu, unknown}
}

func fixtureUser() models.UserProfile {
	return models.UserProfile{
		School:   "浙江工业大学",
		Major:    "软件工程",
		Grade:    "大三",
		Rank:     "前15%",
		CET:      "六级",
		Hometown: &models.Area{Province: "浙江省", City: "宁波"},
	}
}

func fixtureRequest(store refdata.Store, candidates []models.CandidateSchoolMajor) *Request {
	return &Request{
		User:       fixtureUser(),
		Target:     models.TargetPreferences{WorkCities: []models.Area{{Province: "浙江省", City: "杭州"}}},
		Store:      store,
		Population: NewPopulation(store, candidates),
		Now:        fixedNow,
	}
}

type countingRecorder struct {
	counts map[string]int
}

func (r *countingRecorder) DefaultSubstituted(dim models.Dimension, metric string) {
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[string(dim)+"/"+metric]++
}
