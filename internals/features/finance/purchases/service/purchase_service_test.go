package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearning_backend/internals/constants"
	courseModel "elearning_backend/internals/features/courses/courses/model"
	courseService "elearning_backend/internals/features/courses/courses/service"
	balanceModel "elearning_backend/internals/features/finance/balances/model"
	ledger "elearning_backend/internals/features/finance/balances/service"
	"elearning_backend/internals/features/finance/purchases/model"
)

// memWriter: saldo & purchase di memori, aturan saldo sama dengan ledger.
type memWriter struct {
	balance   decimal.Decimal
	purchases []model.PurchaseModel
	insertErr error
}

func (w *memWriter) Debit(e ledger.Entry) (*balanceModel.BalanceTransactionModel, error) {
	next, err := ledger.NextBalance(w.balance, e.Amount)
	if err != nil {
		return nil, err
	}
	w.balance = next
	return &balanceModel.BalanceTransactionModel{
		BalanceTransactionUserID:       e.UserID,
		BalanceTransactionAmount:       e.Amount,
		BalanceTransactionType:         e.Type,
		BalanceTransactionBalanceAfter: next,
	}, nil
}

func (w *memWriter) Insert(row *model.PurchaseModel) error {
	if w.insertErr != nil {
		return w.insertErr
	}
	w.purchases = append(w.purchases, *row)
	return nil
}

func publishedCourse(price int64) *courseModel.CourseModel {
	return &courseModel.CourseModel{
		CourseID:          uuid.New(),
		CourseTeacherID:   uuid.New(),
		CourseTitle:       "Kimia Dasar",
		CoursePrice:       decimal.NewFromInt(price),
		CourseIsPublished: true,
	}
}

func student() courseService.Actor {
	return courseService.Actor{UserID: uuid.New(), Role: constants.RoleUser}
}

func TestPlanBuyPaidCourse(t *testing.T) {
	c := publishedCourse(75000)
	actor := student()

	plan, err := PlanBuy(c, actor, false)
	require.NoError(t, err)
	require.NotNil(t, plan.Debit)
	assert.Equal(t, "-75000", plan.Debit.Amount.String())
	assert.Equal(t, balanceModel.TxPurchase, plan.Debit.Type)
	assert.Equal(t, actor.UserID, plan.Debit.UserID)
	assert.Equal(t, model.SourceBalance, plan.Purchase.PurchaseSource)
	assert.True(t, plan.Purchase.PurchaseAmount.Equal(c.CoursePrice))
}

func TestPlanBuyFreeCourse(t *testing.T) {
	plan, err := PlanBuy(publishedCourse(0), student(), false)
	require.NoError(t, err)
	assert.Nil(t, plan.Debit)
	assert.Equal(t, model.SourceFree, plan.Purchase.PurchaseSource)
	assert.True(t, plan.Purchase.PurchaseAmount.IsZero())
}

func TestPlanBuyRejects(t *testing.T) {
	draft := publishedCourse(10000)
	draft.CourseIsPublished = false
	_, err := PlanBuy(draft, student(), false)
	assert.ErrorIs(t, err, ErrCourseNotReady)

	_, err = PlanBuy(publishedCourse(10000), student(), true)
	assert.ErrorIs(t, err, ErrAlreadyOwned)

	c := publishedCourse(10000)
	owner := courseService.Actor{UserID: c.CourseTeacherID, Role: constants.RoleTeacher}
	_, err = PlanBuy(c, owner, false)
	assert.ErrorIs(t, err, ErrAlreadyOwned)
}

func TestExecutePlanInsufficientBalanceWritesNothing(t *testing.T) {
	plan, err := PlanBuy(publishedCourse(75000), student(), false)
	require.NoError(t, err)

	w := &memWriter{balance: decimal.NewFromInt(50000)}
	row, entry, err := executePlan(w, plan)
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	assert.Nil(t, row)
	assert.Nil(t, entry)
	assert.Empty(t, w.purchases)
	assert.Equal(t, "50000", w.balance.String())
}

func TestExecutePlanDebitsThenInserts(t *testing.T) {
	plan, err := PlanBuy(publishedCourse(75000), student(), false)
	require.NoError(t, err)

	w := &memWriter{balance: decimal.NewFromInt(100000)}
	row, entry, err := executePlan(w, plan)
	require.NoError(t, err)
	require.NotNil(t, row)
	require.NotNil(t, entry)
	assert.Equal(t, "25000", entry.BalanceTransactionBalanceAfter.String())
	assert.Len(t, w.purchases, 1)
}

func TestExecutePlanInsertErrorPropagates(t *testing.T) {
	plan, err := PlanBuy(publishedCourse(0), student(), false)
	require.NoError(t, err)

	w := &memWriter{insertErr: ErrAlreadyOwned}
	_, _, err = executePlan(w, plan)
	assert.True(t, errors.Is(err, ErrAlreadyOwned))
}
