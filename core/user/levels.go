package user

// SchoolLevel describes the stage a year level belongs to.
type SchoolLevel struct {
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
	Year        int    `json:"year"`
}

type schoolStage struct {
	name        string
	englishName string
	years       []int
}

var schoolStages = []schoolStage{
	{name: "المرحلة الابتدائية", englishName: "Primary School", years: []int{1, 2, 3, 4, 5, 6}},
	{name: "المرحلة الاعدادية", englishName: "Preparatory School", years: []int{7, 8, 9}},
	{name: "المرحلة الثانوية", englishName: "Secondary School", years: []int{10, 11, 12}},
}

// SchoolLevelFor maps a year level (1-12) to its stage; nil when out of range.
func SchoolLevelFor(year int) *SchoolLevel {
	for _, stage := range schoolStages {
		for _, y := range stage.years {
			if y == year {
				return &SchoolLevel{Name: stage.name, EnglishName: stage.englishName, Year: year}
			}
		}
	}
	return nil
}
