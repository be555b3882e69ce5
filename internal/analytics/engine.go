// Package analytics は農場KPIの集計エンジンを提供する。
// 本パッケージの計算関数は入力レコードのみに依存する純粋関数であり、
// 内部状態を持たない。
package analytics

import (
	"math"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// round2 は小数第2位までに丸める。
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BreedingSuccessRate は交配成功率（%）を返す。
// success=trueの件数 / 全件数 × 100。交配記録が0件の場合は0を返す
// （NaNやnullにはしない）。successがnil（結果未判明）の記録は
// 分母に含め、分子には含めない。
func BreedingSuccessRate(breedings []*model.Breeding) float64 {
	if len(breedings) == 0 {
		return 0
	}
	successful := 0
	for _, b := range breedings {
		if b.Success != nil && *b.Success {
			successful++
		}
	}
	return round2(float64(successful) / float64(len(breedings)) * 100)
}

// AvgPigletsPerLitter は1分娩あたりの平均生存産子数を返す。
// 分娩記録が0件の場合は0を返す。
func AvgPigletsPerLitter(farrowings []*model.Farrowing) float64 {
	if len(farrowings) == 0 {
		return 0
	}
	totalBornAlive := 0
	for _, f := range farrowings {
		totalBornAlive += f.BornAlive
	}
	return round2(float64(totalBornAlive) / float64(len(farrowings)))
}

// SurvivalRate は出生時生存率（%）を返す。
// 総生存産子数 / 総産子数 × 100。総産子数が0の場合は0を返す。
func SurvivalRate(farrowings []*model.Farrowing) float64 {
	totalBorn := 0
	totalBornAlive := 0
	for _, f := range farrowings {
		totalBorn += f.TotalBorn
		totalBornAlive += f.BornAlive
	}
	if totalBorn == 0 {
		return 0
	}
	return round2(float64(totalBornAlive) / float64(totalBorn) * 100)
}

// MortalityRate は死亡率（%）を返す。
// 分子は期間内の死亡記録数、分母は現在時点の飼養頭数スナップショット。
// 期間平均頭数ではなく現在頭数で割る近似であり、元システムの仕様を
// そのまま保持している。頭数が0の場合は0を返す。
func MortalityRate(mortalityCount, currentTotalAnimals int) float64 {
	if currentTotalAnimals == 0 {
		return 0
	}
	return round2(float64(mortalityCount) / float64(currentTotalAnimals) * 100)
}

// AvgDailyGain は期間内成長記録のADG（日増体量）の平均を返す。
// ADGがnilの記録（初回測定）は除外する。対象が0件の場合は0を返す。
func AvgDailyGain(records []*model.GrowthRecord) float64 {
	sum := 0.0
	count := 0
	for _, g := range records {
		if g.ADG != nil {
			sum += *g.ADG
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return round2(sum / float64(count))
}

// TotalWeightGain は期間内成長記録から子豚の総増体量を計算する。
// 同一子豚の記録のうち日付が真に増加する全ペア（earlier, later）について
// later.Weight - earlier.Weight を合計する。連続した測定の差分だけでなく
// 有効な全ペアを対象とする（子豚IDで自己結合した総当たり）。
func TotalWeightGain(records []*model.GrowthRecord) float64 {
	byPiglet := make(map[string][]*model.GrowthRecord)
	for _, g := range records {
		byPiglet[g.PigletID] = append(byPiglet[g.PigletID], g)
	}

	total := 0.0
	for _, recs := range byPiglet {
		for i := 0; i < len(recs); i++ {
			for j := 0; j < len(recs); j++ {
				if recs[j].RecordDate.After(recs[i].RecordDate) {
					total += recs[j].Weight - recs[i].Weight
				}
			}
		}
	}
	return total
}

// TotalFeedQuantity は期間内給餌記録の給餌量合計を返す。
func TotalFeedQuantity(records []*model.FeedConsumption) float64 {
	total := 0.0
	for _, f := range records {
		total += f.Quantity
	}
	return total
}

// FeedConversionRatio は飼料要求率（FCR）を返す。
// 総給餌量 / 総増体量。総増体量が0以下、または給餌量合計が0の場合は
// FCRが定義できないためnilを返す（0ではない）。
func FeedConversionRatio(totalFeed, totalGain float64) *float64 {
	if totalGain <= 0 || totalFeed == 0 {
		return nil
	}
	fcr := round2(totalFeed / totalGain)
	return &fcr
}
