package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
	"github.com/hs6uej/farmpigs-sub001/internal/repository"
)

// upcomingFarrowingLimit は分娩予定一覧の最大件数。
const upcomingFarrowingLimit = 10

// upcomingFarrowingWindowDays は分娩予定を表示する先の日数。
// KPI集計ウィンドウとは独立で、常に「現在から30日先」を対象とする。
const upcomingFarrowingWindowDays = 30

// recentHealthRecordLimit は直近健康記録一覧の件数。
const recentHealthRecordLimit = 5

// Overview は農場の現在頭数スナップショット。
type Overview struct {
	TotalSows    int
	TotalBoars   int
	TotalPiglets int
	TotalPens    int
	TotalAnimals int
}

// Performance はKPI集計結果。FCRは未定義の場合nil。
type Performance struct {
	BreedingSuccessRate float64
	AvgPigletsPerLitter float64
	SurvivalRate        float64
	MortalityRate       float64
	AvgDailyGain        float64
	FCR                 *float64
}

// Report はダッシュボード集計の結果全体。
type Report struct {
	StartDate           time.Time
	EndDate             time.Time
	Overview            Overview
	SowsByStatus        map[string]int
	PigletsByStatus     map[string]int
	Performance         Performance
	UpcomingFarrowings  []*repository.UpcomingFarrowing
	RecentHealthRecords []*model.HealthRecord
}

// ServiceConfig は集計サービスの設定。
type ServiceConfig struct {
	DefaultWindowDays int // start/end未指定時の集計ウィンドウ日数
}

// Service はダッシュボードKPIの集計サービス。
// リポジトリから期間内レコードとスナップショット集計を取得し、
// engineの純粋関数でKPIに還元する。
type Service struct {
	sowRepo       repository.SowRepository
	boarRepo      repository.BoarRepository
	pigletRepo    repository.PigletRepository
	penRepo       repository.PenRepository
	breedingRepo  repository.BreedingRepository
	farrowingRepo repository.FarrowingRepository
	healthRepo    repository.HealthRecordRepository
	growthRepo    repository.GrowthRecordRepository
	feedRepo      repository.FeedConsumptionRepository
	config        ServiceConfig
	now           func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	sowRepo repository.SowRepository,
	boarRepo repository.BoarRepository,
	pigletRepo repository.PigletRepository,
	penRepo repository.PenRepository,
	breedingRepo repository.BreedingRepository,
	farrowingRepo repository.FarrowingRepository,
	healthRepo repository.HealthRecordRepository,
	growthRepo repository.GrowthRecordRepository,
	feedRepo repository.FeedConsumptionRepository,
	config ServiceConfig,
) *Service {
	if config.DefaultWindowDays <= 0 {
		config.DefaultWindowDays = upcomingFarrowingWindowDays
	}
	return &Service{
		sowRepo:       sowRepo,
		boarRepo:      boarRepo,
		pigletRepo:    pigletRepo,
		penRepo:       penRepo,
		breedingRepo:  breedingRepo,
		farrowingRepo: farrowingRepo,
		healthRepo:    healthRepo,
		growthRepo:    growthRepo,
		feedRepo:      feedRepo,
		config:        config,
		now:           time.Now,
	}
}

// WithClock は現在時刻の取得関数を差し替えたServiceを返す。テスト用。
func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.now = now
	return &clone
}

// BuildReport は[start, end]のKPI集計を実行してReportを返す。
// startまたはendがゼロ値の場合はデフォルトウィンドウ（now-30d〜now）を使う。
// start > end の場合はエラーとせず、空ウィンドウとして各指標が0になる。
// いずれかのクエリが失敗した場合は全体を失敗とし、部分結果は返さない。
func (s *Service) BuildReport(ctx context.Context, start, end time.Time) (*Report, error) {
	now := s.now()

	if start.IsZero() || end.IsZero() {
		end = now
		start = now.AddDate(0, 0, -s.config.DefaultWindowDays)
	}

	// スナップショット集計（期間指定の影響を受けない）
	totalSows, err := s.sowRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("母豚頭数の集計に失敗しました: %w", err)
	}
	totalBoars, err := s.boarRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("種雄豚頭数の集計に失敗しました: %w", err)
	}
	totalPiglets, err := s.pigletRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("子豚頭数の集計に失敗しました: %w", err)
	}
	totalPens, err := s.penRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("豚房数の集計に失敗しました: %w", err)
	}
	sowsByStatus, err := s.sowRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("母豚ステータス別頭数の集計に失敗しました: %w", err)
	}
	pigletsByStatus, err := s.pigletRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("子豚ステータス別頭数の集計に失敗しました: %w", err)
	}

	// 期間内レコードの取得
	breedings, err := s.breedingRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("期間内交配記録の取得に失敗しました: %w", err)
	}
	farrowings, err := s.farrowingRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("期間内分娩記録の取得に失敗しました: %w", err)
	}
	mortalityCount, err := s.healthRepo.CountByTypeInRange(ctx, model.HealthRecordMortality, start, end)
	if err != nil {
		return nil, fmt.Errorf("期間内死亡記録数の取得に失敗しました: %w", err)
	}
	growthRecords, err := s.growthRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("期間内成長記録の取得に失敗しました: %w", err)
	}
	feedRecords, err := s.feedRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("期間内給餌記録の取得に失敗しました: %w", err)
	}

	// 分娩予定はKPIウィンドウと独立に「現在から30日先」を対象とする
	upcoming, err := s.breedingRepo.ListUpcomingFarrowings(
		ctx, now, now.AddDate(0, 0, upcomingFarrowingWindowDays), upcomingFarrowingLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("分娩予定の取得に失敗しました: %w", err)
	}

	recentHealth, err := s.healthRepo.ListRecent(ctx, recentHealthRecordLimit)
	if err != nil {
		return nil, fmt.Errorf("直近健康記録の取得に失敗しました: %w", err)
	}

	totalAnimals := totalSows + totalBoars + totalPiglets
	totalGain := TotalWeightGain(growthRecords)
	totalFeed := TotalFeedQuantity(feedRecords)

	return &Report{
		StartDate: start,
		EndDate:   end,
		Overview: Overview{
			TotalSows:    totalSows,
			TotalBoars:   totalBoars,
			TotalPiglets: totalPiglets,
			TotalPens:    totalPens,
			TotalAnimals: totalAnimals,
		},
		SowsByStatus:    sowsByStatus,
		PigletsByStatus: pigletsByStatus,
		Performance: Performance{
			BreedingSuccessRate: BreedingSuccessRate(breedings),
			AvgPigletsPerLitter: AvgPigletsPerLitter(farrowings),
			SurvivalRate:        SurvivalRate(farrowings),
			MortalityRate:       MortalityRate(mortalityCount, totalAnimals),
			AvgDailyGain:        AvgDailyGain(growthRecords),
			FCR:                 FeedConversionRatio(totalFeed, totalGain),
		},
		UpcomingFarrowings:  upcoming,
		RecentHealthRecords: recentHealth,
	}, nil
}
