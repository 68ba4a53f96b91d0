package mock

type Mock struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	CreatedAt   int64  `json:"created_at" db:"created_at"`
	IsActive    bool   `json:"is_active" db:"is_active"`
	TimeLimit   int    `json:"time_limit" db:"time_limit"` // minutes

	// filled on detail reads only
	Counts *SectionCounts `json:"counts,omitempty" db:"-"`
}

type SectionCounts struct {
	Readings   int `json:"readings"`
	Listenings int `json:"listenings"`
	Writings   int `json:"writings"`
	Results    int `json:"results"`
}

// Question is shared by reading and listening sections; SectionID points at
// the owning reading or listening row.
type Question struct {
	ID            int64   `json:"id" db:"id"`
	SectionID     int64   `json:"section_id" db:"section_id"`
	QuestionText  string  `json:"question_text" db:"question_text"`
	QuestionType  string  `json:"question_type" db:"question_type"`
	CorrectAnswer string  `json:"correct_answer,omitempty" db:"correct_answer"`
	OptionA       *string `json:"option_a,omitempty" db:"option_a"`
	OptionB       *string `json:"option_b,omitempty" db:"option_b"`
	OptionC       *string `json:"option_c,omitempty" db:"option_c"`
	OptionD       *string `json:"option_d,omitempty" db:"option_d"`
	OrderNumber   int     `json:"order_number" db:"order_number"`
	Points        int     `json:"points" db:"points"`
}

type Reading struct {
	ID          int64      `json:"id" db:"id"`
	MockID      int64      `json:"mock_id" db:"mock_id"`
	Title       string     `json:"title" db:"title"`
	PassageText string     `json:"passage_text" db:"passage_text"`
	OrderNumber int        `json:"order_number" db:"order_number"`
	Questions   []Question `json:"questions" db:"-"`
}

type Listening struct {
	ID            int64      `json:"id" db:"id"`
	MockID        int64      `json:"mock_id" db:"mock_id"`
	Title         string     `json:"title" db:"title"`
	AudioPath     string     `json:"audio_path" db:"audio_path"`
	AudioFileName string     `json:"audio_file_name" db:"audio_file_name"`
	AudioSize     int64      `json:"audio_size" db:"audio_size"`
	AudioURL      string     `json:"audio_url,omitempty" db:"-"`
	OrderNumber   int        `json:"order_number" db:"order_number"`
	Transcript    *string    `json:"transcript,omitempty" db:"transcript"`
	Questions     []Question `json:"questions" db:"-"`
}

type Writing struct {
	ID              int64  `json:"id" db:"id"`
	MockID          int64  `json:"mock_id" db:"mock_id"`
	Title           string `json:"title" db:"title"`
	TaskDescription string `json:"task_description" db:"task_description"`
	TaskType        string `json:"task_type" db:"task_type"`
	MinWords        int    `json:"min_words" db:"min_words"`
	OrderNumber     int    `json:"order_number" db:"order_number"`
	Points          int    `json:"points" db:"points"`
	ImagePath       string `json:"image_path,omitempty" db:"image_path"`
	ImageURL        string `json:"image_url,omitempty" db:"-"`
}

// Content is everything a test taker needs for one mock.
type Content struct {
	Mock       Mock        `json:"mock"`
	Readings   []Reading   `json:"readings"`
	Listenings []Listening `json:"listenings"`
	Writings   []Writing   `json:"writings"`
}

// StripAnswers removes correct answers so the content can be shown to a
// test taker.
func (c *Content) StripAnswers() {
	for i := range c.Readings {
		for j := range c.Readings[i].Questions {
			c.Readings[i].Questions[j].CorrectAnswer = ""
		}
	}
	for i := range c.Listenings {
		for j := range c.Listenings[i].Questions {
			c.Listenings[i].Questions[j].CorrectAnswer = ""
		}
	}
}

type ResultStatus string

const (
	StatusStarted   ResultStatus = "started"
	StatusCompleted ResultStatus = "completed"
)

// Result is one user's attempt at a mock.
type Result struct {
	ID             int64  `json:"id" db:"id"`
	UserID         string `json:"user_id" db:"user_id"`
	MockID         int64  `json:"mock_id" db:"mock_id"`
	StartedAt      int64  `json:"started_at" db:"started_at"`
	CompletedAt    *int64 `json:"completed_at,omitempty" db:"completed_at"`
	IsCompleted    bool   `json:"is_completed" db:"is_completed"`
	ReadingScore   int    `json:"reading_score" db:"reading_score"`
	ListeningScore int    `json:"listening_score" db:"listening_score"`
	WritingScore   int    `json:"writing_score" db:"writing_score"`
	TotalScore     int    `json:"total_score" db:"total_score"`
}

func (r Result) Status() ResultStatus {
	if r.IsCompleted {
		return StatusCompleted
	}
	return StatusStarted
}

// Answer is a reading or listening answer row.
type Answer struct {
	ID         int64  `json:"id" db:"id"`
	ResultID   int64  `json:"result_id" db:"result_id"`
	QuestionID int64  `json:"question_id" db:"question_id"`
	UserAnswer string `json:"user_answer" db:"user_answer"`
	IsCorrect  bool   `json:"is_correct" db:"is_correct"`
	AnsweredAt int64  `json:"answered_at" db:"answered_at"`

	// joined from the question on detail reads
	QuestionText  string `json:"question_text,omitempty" db:"question_text"`
	CorrectAnswer string `json:"correct_answer,omitempty" db:"correct_answer"`
	Points        int    `json:"points,omitempty" db:"points"`
}

type WritingAnswer struct {
	ID         int64   `json:"id" db:"id"`
	ResultID   int64   `json:"result_id" db:"result_id"`
	WritingID  int64   `json:"writing_id" db:"writing_id"`
	AnswerText string  `json:"answer_text" db:"answer_text"`
	WordCount  int     `json:"word_count" db:"word_count"`
	Score      *int    `json:"score" db:"score"`
	Feedback   *string `json:"feedback,omitempty" db:"feedback"`
	AnsweredAt int64   `json:"answered_at" db:"answered_at"`

	WritingTitle string `json:"writing_title,omitempty" db:"writing_title"`
	MaxPoints    int    `json:"max_points,omitempty" db:"max_points"`
}

// ResultDetail is a result with its answers and the mock it belongs to.
type ResultDetail struct {
	Result
	Status           ResultStatus    `json:"status"`
	MockTitle        string          `json:"mock_title"`
	ReadingAnswers   []Answer        `json:"reading_answers"`
	ListeningAnswers []Answer        `json:"listening_answers"`
	WritingAnswers   []WritingAnswer `json:"writing_answers"`
}

// ResultSummary is a row in result listings.
type ResultSummary struct {
	Result
	Username  string `json:"username" db:"username"`
	MockTitle string `json:"mock_title" db:"mock_title"`
}
