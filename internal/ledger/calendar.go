package ledger

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// WeekNumber yılın hafta numarasını döner.
// Eski istemcilerle uyum için ceil((gün + 1 Ocak'ın haftanın günü + 1) / 7) formülü korunur;
// yıl sınırına yakın günlerde ISO hafta numarasından farklı sonuç verebilir.
func WeekNumber(t time.Time) int {
	startOfYear := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := int(math.Floor(float64(t.Sub(startOfYear)) / float64(day)))
	return int(math.Ceil(float64(days+int(startOfYear.Weekday())+1) / 7))
}

// endOfDay günün son anı (23:59:59.999)
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// startOfDay günün ilk anı (00:00:00)
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// OpeningWindow ilk operasyonun penceresini hesaplar: şu andan bu haftanın pazar günü sonuna kadar.
// Bugün pazar ise pencere bugün biter.
func OpeningWindow(now time.Time, loc *time.Location) (start, finish time.Time, weekNumber int) {
	local := now.In(loc)

	diffToSunday := 0
	if wd := local.Weekday(); wd != time.Sunday {
		diffToSunday = 7 - int(wd)
	}

	sunday := local.AddDate(0, 0, diffToSunday)
	return local, endOfDay(sunday), WeekNumber(local)
}

// NextWeekWindow bir önceki pencerenin bitişinden sonraki 7 günlük pencereyi döner
func NextWeekWindow(previousFinish time.Time, loc *time.Location) (start, finish time.Time) {
	local := previousFinish.In(loc)
	start = startOfDay(local.AddDate(0, 0, 1))
	finish = endOfDay(start.AddDate(0, 0, 6))
	return start, finish
}

// DaysUntil iki tarih arasındaki gün farkı (gün bazında, iş zaman diliminde)
func DaysUntil(target, now time.Time, loc *time.Location) int {
	a := startOfDay(target.In(loc))
	b := startOfDay(now.In(loc))
	return int(math.Ceil(float64(a.Sub(b)) / float64(day)))
}

// MaturityDate vade tarihi: oluşturma anı + period ay
func MaturityDate(createdAt time.Time, periodMonths int) time.Time {
	return createdAt.AddDate(0, periodMonths, 0)
}

// ExtendTerm vadeyi 365 gün uzatır
func ExtendTerm(dateUntil time.Time) time.Time {
	return dateUntil.AddDate(0, 0, 365)
}
