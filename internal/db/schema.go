package db

var schemaSQLite = []string{
	`PRAGMA foreign_keys=ON`,

	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'User',
  created_at INTEGER NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS mocks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  time_limit INTEGER NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS readings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  mock_id INTEGER NOT NULL REFERENCES mocks(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  passage_text TEXT NOT NULL,
  order_number INTEGER NOT NULL DEFAULT 0
)`,

	`CREATE TABLE IF NOT EXISTS reading_questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  reading_id INTEGER NOT NULL REFERENCES readings(id) ON DELETE CASCADE,
  question_text TEXT NOT NULL,
  question_type TEXT NOT NULL,
  correct_answer TEXT NOT NULL,
  option_a TEXT,
  option_b TEXT,
  option_c TEXT,
  option_d TEXT,
  order_number INTEGER NOT NULL DEFAULT 0,
  points INTEGER NOT NULL DEFAULT 1
)`,

	`CREATE TABLE IF NOT EXISTS listenings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  mock_id INTEGER NOT NULL REFERENCES mocks(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  audio_path TEXT NOT NULL,
  audio_file_name TEXT NOT NULL DEFAULT '',
  audio_size INTEGER NOT NULL DEFAULT 0,
  order_number INTEGER NOT NULL DEFAULT 0,
  transcript TEXT
)`,

	`CREATE TABLE IF NOT EXISTS listening_questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  listening_id INTEGER NOT NULL REFERENCES listenings(id) ON DELETE CASCADE,
  question_text TEXT NOT NULL,
  question_type TEXT NOT NULL,
  correct_answer TEXT NOT NULL,
  option_a TEXT,
  option_b TEXT,
  option_c TEXT,
  option_d TEXT,
  order_number INTEGER NOT NULL DEFAULT 0,
  points INTEGER NOT NULL DEFAULT 1
)`,

	`CREATE TABLE IF NOT EXISTS writings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  mock_id INTEGER NOT NULL REFERENCES mocks(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  task_description TEXT NOT NULL,
  task_type TEXT NOT NULL DEFAULT '',
  min_words INTEGER NOT NULL DEFAULT 150,
  order_number INTEGER NOT NULL DEFAULT 0,
  points INTEGER NOT NULL DEFAULT 9,
  image_path TEXT NOT NULL DEFAULT ''
)`,

	`CREATE TABLE IF NOT EXISTS results (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  mock_id INTEGER NOT NULL REFERENCES mocks(id) ON DELETE CASCADE,
  started_at INTEGER NOT NULL,
  completed_at INTEGER,
  is_completed INTEGER NOT NULL DEFAULT 0,
  reading_score INTEGER NOT NULL DEFAULT 0,
  listening_score INTEGER NOT NULL DEFAULT 0,
  writing_score INTEGER NOT NULL DEFAULT 0,
  total_score INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS ix_results_user ON results(user_id)`,
	`CREATE INDEX IF NOT EXISTS ix_results_mock ON results(mock_id)`,

	`CREATE TABLE IF NOT EXISTS reading_answers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  result_id INTEGER NOT NULL REFERENCES results(id) ON DELETE CASCADE,
  question_id INTEGER NOT NULL REFERENCES reading_questions(id) ON DELETE CASCADE,
  user_answer TEXT NOT NULL,
  is_correct INTEGER NOT NULL DEFAULT 0,
  answered_at INTEGER NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS listening_answers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  result_id INTEGER NOT NULL REFERENCES results(id) ON DELETE CASCADE,
  question_id INTEGER NOT NULL REFERENCES listening_questions(id) ON DELETE CASCADE,
  user_answer TEXT NOT NULL,
  is_correct INTEGER NOT NULL DEFAULT 0,
  answered_at INTEGER NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS writing_answers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  result_id INTEGER NOT NULL REFERENCES results(id) ON DELETE CASCADE,
  writing_id INTEGER NOT NULL REFERENCES writings(id) ON DELETE CASCADE,
  answer_text TEXT NOT NULL,
  word_count INTEGER NOT NULL DEFAULT 0,
  score INTEGER,
  feedback TEXT,
  answered_at INTEGER NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS event_log (
  "offset" INTEGER PRIMARY KEY AUTOINCREMENT,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at INTEGER NOT NULL
)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'User',
  created_at BIGINT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS mocks (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  time_limit INTEGER NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS readings (
  id BIGSERIAL PRIMARY KEY,
  mock_id BIGINT NOT NULL REFERENCES mocks(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  passage_text TEXT NOT NULL,
  order_number INTEGER NOT NULL DEFAULT 0
)`,

	`CREATE TABLE IF NOT EXISTS reading_questions (
  id BIGSERIAL PRIMARY KEY,
  reading_id BIGINT NOT NULL REFERENCES readings(id) ON DELETE CASCADE,
  question_text TEXT NOT NULL,
  question_type TEXT NOT NULL,
  correct_answer TEXT NOT NULL,
  option_a TEXT,
  option_b TEXT,
  option_c TEXT,
  option_d TEXT,
  order_number INTEGER NOT NULL DEFAULT 0,
  points INTEGER NOT NULL DEFAULT 1
)`,

	`CREATE TABLE IF NOT EXISTS listenings (
  id BIGSERIAL PRIMARY KEY,
  mock_id BIGINT NOT NULL REFERENCES mocks(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  audio_path TEXT NOT NULL,
  audio_file_name TEXT NOT NULL DEFAULT '',
  audio_size BIGINT NOT NULL DEFAULT 0,
  order_number INTEGER NOT NULL DEFAULT 0,
  transcript TEXT
)`,

	`CREATE TABLE IF NOT EXISTS listening_questions (
  id BIGSERIAL PRIMARY KEY,
  listening_id BIGINT NOT NULL REFERENCES listenings(id) ON DELETE CASCADE,
  question_text TEXT NOT NULL,
  question_type TEXT NOT NULL,
  correct_answer TEXT NOT NULL,
  option_a TEXT,
  option_b TEXT,
  option_c TEXT,
  option_d TEXT,
  order_number INTEGER NOT NULL DEFAULT 0,
  points INTEGER NOT NULL DEFAULT 1
)`,

	`CREATE TABLE IF NOT EXISTS writings (
  id BIGSERIAL PRIMARY KEY,
  mock_id BIGINT NOT NULL REFERENCES mocks(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  task_description TEXT NOT NULL,
  task_type TEXT NOT NULL DEFAULT '',
  min_words INTEGER NOT NULL DEFAULT 150,
  order_number INTEGER NOT NULL DEFAULT 0,
  points INTEGER NOT NULL DEFAULT 9,
  image_path TEXT NOT NULL DEFAULT ''
)`,

	`CREATE TABLE IF NOT EXISTS results (
  id BIGSERIAL PRIMARY KEY,
  user_id TEXT NOT NULL,
  mock_id BIGINT NOT NULL REFERENCES mocks(id) ON DELETE CASCADE,
  started_at BIGINT NOT NULL,
  completed_at BIGINT,
  is_completed BOOLEAN NOT NULL DEFAULT FALSE,
  reading_score INTEGER NOT NULL DEFAULT 0,
  listening_score INTEGER NOT NULL DEFAULT 0,
  writing_score INTEGER NOT NULL DEFAULT 0,
  total_score INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS ix_results_user ON results(user_id)`,
	`CREATE INDEX IF NOT EXISTS ix_results_mock ON results(mock_id)`,

	`CREATE TABLE IF NOT EXISTS reading_answers (
  id BIGSERIAL PRIMARY KEY,
  result_id BIGINT NOT NULL REFERENCES results(id) ON DELETE CASCADE,
  question_id BIGINT NOT NULL REFERENCES reading_questions(id) ON DELETE CASCADE,
  user_answer TEXT NOT NULL,
  is_correct BOOLEAN NOT NULL DEFAULT FALSE,
  answered_at BIGINT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS listening_answers (
  id BIGSERIAL PRIMARY KEY,
  result_id BIGINT NOT NULL REFERENCES results(id) ON DELETE CASCADE,
  question_id BIGINT NOT NULL REFERENCES listening_questions(id) ON DELETE CASCADE,
  user_answer TEXT NOT NULL,
  is_correct BOOLEAN NOT NULL DEFAULT FALSE,
  answered_at BIGINT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS writing_answers (
  id BIGSERIAL PRIMARY KEY,
  result_id BIGINT NOT NULL REFERENCES results(id) ON DELETE CASCADE,
  writing_id BIGINT NOT NULL REFERENCES writings(id) ON DELETE CASCADE,
  answer_text TEXT NOT NULL,
  word_count INTEGER NOT NULL DEFAULT 0,
  score INTEGER,
  feedback TEXT,
  answered_at BIGINT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS event_log (
  "offset" BIGSERIAL PRIMARY KEY,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
)`,
}
