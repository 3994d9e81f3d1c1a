package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onerilhan/go-portfolio-api/internal/models"
)

var (
	// ErrOperationNotInChain hedef operasyon portföyün zincirinde yok
	ErrOperationNotInChain = errors.New("operasyon portföy zincirinde bulunamadı")
	// ErrRefundOperation refund kayıtlarına kâr yüzdesi uygulanamaz
	ErrRefundOperation = errors.New("refund operasyonu haftalık kapanışa tabi değildir")
	// ErrBrokenChain zincir invariantı bozulmuş
	ErrBrokenChain = errors.New("operasyon zinciri tutarsız")
)

// SortChain operasyonları oluşturulma sırasına (sequence) göre sıralar
func SortChain(operations []*models.DepositOperation) {
	sort.SliceStable(operations, func(i, j int) bool {
		return operations[i].Sequence < operations[j].Sequence
	})
}

// VerifyChain zincirin tek kuyruk ve değer sürekliliği invariantlarını kontrol eder.
// Operasyonların sequence'e göre sıralı olduğu varsayılır.
func VerifyChain(operations []*models.DepositOperation) error {
	if len(operations) == 0 {
		return nil
	}

	tails := 0
	for i, op := range operations {
		if op.IsTail() {
			tails++
			if i != len(operations)-1 {
				return fmt.Errorf("%w: kuyruk son eleman değil (operasyon %d)", ErrBrokenChain, op.ID)
			}
			continue
		}
		if i+1 >= len(operations) {
			return fmt.Errorf("%w: son operasyonun devamı var (operasyon %d)", ErrBrokenChain, op.ID)
		}
		next := operations[i+1]
		if *op.NextOperationID != next.ID {
			return fmt.Errorf("%w: operasyon %d sıradaki kayda bağlı değil", ErrBrokenChain, op.ID)
		}
		if !op.WeekFinishAmount.Equal(next.WeekStartAmount) {
			return fmt.Errorf("%w: operasyon %d bitiş tutarı %s, devam eden başlangıç %s",
				ErrBrokenChain, op.ID, op.WeekFinishAmount, next.WeekStartAmount)
		}
	}

	if tails != 1 {
		return fmt.Errorf("%w: %d adet açık kuyruk", ErrBrokenChain, tails)
	}
	return nil
}

// SettlementPlan haftalık kapanışın zincire uygulanacak değişiklikleri
type SettlementPlan struct {
	Target       *models.DepositOperation
	NewOperation *models.DepositOperation   // sadece ilk kapanışta oluşur
	Recalculated []*models.DepositOperation // yeniden hesaplanan sonraki haftalar
}

// PlanSettlement hedef haftaya kâr yüzdesini uygular.
// İlk kapanışta yeni hafta açılır; daha önce kapanmış bir hafta düzenlenirse
// sonraki tüm haftalar kendi yüzdeleriyle zincir boyunca yeniden hesaplanır.
// Operasyonlar yerinde güncellenir; zincir sequence sırasında olmalıdır.
func PlanSettlement(chain []*models.DepositOperation, targetID int64, percent decimal.Decimal, loc *time.Location) (*SettlementPlan, error) {
	idx := -1
	for i, op := range chain {
		if op.ID == targetID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrOperationNotInChain
	}

	target := chain[idx]
	if target.IsRefundOperation {
		return nil, ErrRefundOperation
	}

	// bitiş tutarı saklanan yüzdeden hesaplanır, böylece sonraki cascade aynı sonucu üretir
	percent = RoundPercent(percent)
	target.WeekFinishAmount = ApplyProfit(target.WeekStartAmount, percent)
	target.ProfitPercent = percent
	plan := &SettlementPlan{Target: target}

	if !target.IsFilled && target.IsTail() {
		start, finish := NextWeekWindow(target.WeekDateFinish, loc)
		plan.NewOperation = &models.DepositOperation{
			DepositID:        target.DepositID,
			UserID:           target.UserID,
			WeekDateStart:    start,
			WeekDateFinish:   finish,
			WeekStartAmount:  target.WeekFinishAmount,
			WeekFinishAmount: target.WeekFinishAmount,
			NumberOfWeek:     target.NumberOfWeek + 1,
			Sequence:         chain[len(chain)-1].Sequence + 1,
			ProfitPercent:    decimal.Zero,
			RefundValue:      decimal.Zero,
		}
		target.IsFilled = true
		return plan, nil
	}

	target.IsFilled = true
	if !target.IsTail() {
		plan.Recalculated = Cascade(chain, idx)
	}
	return plan, nil
}

// Cascade from indeksinden sonraki operasyonların tutarlarını zincir boyunca yeniden hesaplar
// ve değişenleri döner.
func Cascade(chain []*models.DepositOperation, from int) []*models.DepositOperation {
	changed := make([]*models.DepositOperation, 0)
	prev := chain[from]

	for i := from + 1; i < len(chain); i++ {
		op := chain[i]
		start := prev.WeekFinishAmount

		var finish decimal.Decimal
		switch {
		case op.IsRefundOperation:
			finish = Round2(start.Add(op.RefundValue))
		case op.IsFilled:
			finish = ApplyProfit(start, op.ProfitPercent)
		default:
			finish = start
		}

		if !op.WeekStartAmount.Equal(start) || !op.WeekFinishAmount.Equal(finish) {
			op.WeekStartAmount = start
			op.WeekFinishAmount = finish
			changed = append(changed, op)
		}
		prev = op
	}

	return changed
}

// PlanRefund son operasyonu refund olarak işaretler ve aynı hafta penceresinde yeni kuyruk hazırlar.
// latest yerinde güncellenir; NextOperationID yeni kayıt eklendikten sonra bağlanmalıdır.
func PlanRefund(latest *models.DepositOperation, value decimal.Decimal) *models.DepositOperation {
	newFinish := Round2(latest.WeekFinishAmount.Add(value))

	newTail := &models.DepositOperation{
		DepositID:        latest.DepositID,
		UserID:           latest.UserID,
		WeekDateStart:    latest.WeekDateStart,
		WeekDateFinish:   latest.WeekDateFinish,
		WeekStartAmount:  newFinish,
		WeekFinishAmount: newFinish,
		NumberOfWeek:     latest.NumberOfWeek,
		Sequence:         latest.Sequence + 1,
		ProfitPercent:    decimal.Zero,
		RefundValue:      decimal.Zero,
	}

	latest.RefundValue = value
	latest.IsRefundOperation = true
	latest.WeekFinishAmount = newFinish
	latest.IsFilled = true

	return newTail
}

// OpeningOperation yeni portföyün ilk haftasını hazırlar
func OpeningOperation(deposit *models.Deposit, amount decimal.Decimal, now time.Time, loc *time.Location) *models.DepositOperation {
	start, finish, week := OpeningWindow(now, loc)
	amount = Round2(amount)

	return &models.DepositOperation{
		DepositID:        deposit.ID,
		UserID:           deposit.UserID,
		WeekDateStart:    start,
		WeekDateFinish:   finish,
		WeekStartAmount:  amount,
		WeekFinishAmount: amount,
		NumberOfWeek:     week,
		Sequence:         1,
		ProfitPercent:    decimal.Zero,
		RefundValue:      decimal.Zero,
	}
}
