package service

import (
	"errors"
	"strconv"
	"strings"

	"elearning_backend/internals/features/courses/quizzes/model"
)

var (
	ErrQuestionType        = errors.New("type harus MULTIPLE_CHOICE, TRUE_FALSE, atau SHORT_ANSWER")
	ErrOptionsTooFew       = errors.New("pilihan ganda butuh minimal 2 opsi")
	ErrOptionEmpty         = errors.New("opsi tidak boleh kosong")
	ErrOptionDuplicate     = errors.New("opsi tidak boleh duplikat")
	ErrCorrectAnswerEmpty  = errors.New("correct_answer wajib diisi")
	ErrCorrectNotInOptions = errors.New("correct_answer harus salah satu opsi (teks atau index mulai 0)")
	ErrTrueFalseAnswer     = errors.New("correct_answer harus true atau false")
)

var trueFalseOptions = []string{"true", "false"}

// NormalizeType: uppercase + trim; error kalau bukan tipe yang dikenal.
func NormalizeType(t string) (string, error) {
	t = strings.ToUpper(strings.TrimSpace(t))
	switch t {
	case model.QuestionMultipleChoice, model.QuestionTrueFalse, model.QuestionShortAnswer:
		return t, nil
	}
	return "", ErrQuestionType
}

/*
NormalizeQuestion memvalidasi opsi & kunci jawaban dari client sesuai tipe,
dan mengembalikan bentuk yang disimpan:
  - MULTIPLE_CHOICE: opsi di-trim, minimal 2, unik. Kunci boleh teks opsi
    atau index (0-based); yang disimpan selalu teks opsinya.
  - TRUE_FALSE: opsi dipaksa ["true","false"], kunci "true"/"false".
  - SHORT_ANSWER: tanpa opsi, kunci tidak boleh kosong.
*/
func NormalizeQuestion(qType string, options []string, correct string) ([]string, string, error) {
	return normalizeQuestion(qType, options, correct, true)
}

// NormalizeStoredQuestion: sama dengan NormalizeQuestion, tapi kunci berasal
// dari DB (sudah teks opsi) sehingga tidak pernah dibaca sebagai index.
func NormalizeStoredQuestion(qType string, options []string, stored string) ([]string, string, error) {
	return normalizeQuestion(qType, options, stored, false)
}

func normalizeQuestion(qType string, options []string, correct string, allowIndex bool) ([]string, string, error) {
	qType, err := NormalizeType(qType)
	if err != nil {
		return nil, "", err
	}
	correct = strings.TrimSpace(correct)

	switch qType {
	case model.QuestionMultipleChoice:
		opts, err := normalizeOptions(options)
		if err != nil {
			return nil, "", err
		}
		if correct == "" {
			return nil, "", ErrCorrectAnswerEmpty
		}
		ans, ok := resolveChoice(opts, correct, allowIndex)
		if !ok {
			return nil, "", ErrCorrectNotInOptions
		}
		return opts, ans, nil

	case model.QuestionTrueFalse:
		if v, ok := NormalizeTrueFalse(correct); ok {
			return trueFalseOptions, v, nil
		}
		return nil, "", ErrTrueFalseAnswer

	default: // SHORT_ANSWER
		if correct == "" {
			return nil, "", ErrCorrectAnswerEmpty
		}
		return []string{}, correct, nil
	}
}

func normalizeOptions(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, o := range in {
		o = strings.TrimSpace(o)
		if o == "" {
			return nil, ErrOptionEmpty
		}
		k := strings.ToLower(o)
		if _, dup := seen[k]; dup {
			return nil, ErrOptionDuplicate
		}
		seen[k] = struct{}{}
		out = append(out, o)
	}
	if len(out) < 2 {
		return nil, ErrOptionsTooFew
	}
	return out, nil
}

// NormalizeTrueFalse: "true"/"benar" → "true", "false"/"salah" → "false".
func NormalizeTrueFalse(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "benar":
		return "true", true
	case "false", "salah":
		return "false", true
	}
	return "", false
}

// resolveChoice: teks opsi yang persis sama menang atas tafsiran index.
// Index hanya dipakai untuk input client.
func resolveChoice(opts []string, v string, allowIndex bool) (string, bool) {
	for _, o := range opts {
		if o == v {
			return o, true
		}
	}
	if !allowIndex {
		return "", false
	}
	if idx, err := strconv.Atoi(v); err == nil && idx >= 0 && idx < len(opts) {
		return opts[idx], true
	}
	return "", false
}
