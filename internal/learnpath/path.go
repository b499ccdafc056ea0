// Package learnpath models an ordered learning path and per-user lesson
// completion.
package learnpath

// Lesson is a single lesson in a learning path.
type Lesson struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Path is an ordered list of lessons.
type Path struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Lessons     []Lesson `yaml:"lessons"`
}

// AddLesson appends a lesson, preserving order.
func (p *Path) AddLesson(l Lesson) {
	p.Lessons = append(p.Lessons, l)
}

// Lesson returns the lesson with the given ID.
func (p *Path) Lesson(id string) (Lesson, bool) {
	for _, l := range p.Lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}
