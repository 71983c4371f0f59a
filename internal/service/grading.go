package service

import (
	"firstaid_backend/internal/model"
	"firstaid_backend/internal/util"
	"math"
)

// GradeResult 评分结果。通过线是全对：错一题无论百分比多高都不算通过，
// 这是产品规则而不是四舍五入的副作用
type GradeResult struct {
	Score      int  `json:"score"` // 0-100
	AllCorrect bool `json:"allCorrect"`
	Correct    int  `json:"correct"`
	Total      int  `json:"total"`
}

// GradeExam 对照答案键评分。纯函数，无副作用。
//
// answers 以题目ID为键；每道题都必须有作答，缺任何一题返回
// ErrIncompleteSubmission（完整性由编排方在进入评分前保证，
// 这里的检查让契约对任意输入保持完整）。
// 判定为精确、大小写敏感的字符串相等；按值比较，与选项呈现顺序无关
func GradeExam(questions []model.ExamQuestion, answers map[string]string) (*GradeResult, error) {
	for _, q := range questions {
		if _, ok := answers[q.ID]; !ok {
			return nil, util.ErrIncompleteSubmission
		}
	}

	total := len(questions)
	if total == 0 {
		// 空试卷不可评分通过
		return &GradeResult{Score: 0, AllCorrect: false, Correct: 0, Total: 0}, nil
	}

	correct := 0
	for _, q := range questions {
		if answers[q.ID] == q.CorrectAnswer {
			correct++
		}
	}

	score := int(math.Round(100 * float64(correct) / float64(total)))

	return &GradeResult{
		Score:      score,
		AllCorrect: correct == total,
		Correct:    correct,
		Total:      total,
	}, nil
}
