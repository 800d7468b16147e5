package entity

import "github.com/shopspring/decimal"

// BonusCategory is a canonical bonus bucket of the bonus distribution report.
type BonusCategory string

const (
	BonusAmoe               BonusCategory = "amoeBonus"
	BonusTier               BonusCategory = "tierBonus"
	BonusDaily              BonusCategory = "dailyBonus"
	BonusPackage            BonusCategory = "packageBonus"
	BonusRafflePayout       BonusCategory = "rafflePayout"
	BonusWelcome            BonusCategory = "welcomeBonus"
	BonusJackpotWinner      BonusCategory = "jackpotWinner"
	BonusProvider           BonusCategory = "providerBonus"
	BonusReferral           BonusCategory = "referralBonus"
	BonusAffiliate          BonusCategory = "affiliateBonus"
	BonusPromotion          BonusCategory = "promotionBonus"
	BonusWeeklyTier         BonusCategory = "weeklyTierBonus"
	BonusMonthlyTier        BonusCategory = "monthlyTierBonus"
	BonusTournamentWinner   BonusCategory = "tournamentWinner"
	BonusAdminAddedSc       BonusCategory = "adminAddedScBonus"
	BonusCrmPromocode       BonusCategory = "crmPromocodeBonus"
	BonusPurchasePromocode  BonusCategory = "purchasePromocodeBonus"
	BonusScratchCard        BonusCategory = "scratchCardBonus"
	BonusVipQuestionnaire   BonusCategory = "vipQuestionnaireBonus"
	BonusFreeSpin           BonusCategory = "freeSpinBonus"
	BonusTotal              BonusCategory = "total"
)

// BonusCategories is the fixed canonical list, without the synthetic total.
var BonusCategories = []BonusCategory{
	BonusAmoe, BonusTier, BonusDaily, BonusPackage, BonusRafflePayout,
	BonusWelcome, BonusJackpotWinner, BonusProvider, BonusReferral,
	BonusAffiliate, BonusPromotion, BonusWeeklyTier, BonusMonthlyTier,
	BonusTournamentWinner, BonusAdminAddedSc, BonusCrmPromocode,
	BonusPurchasePromocode, BonusScratchCard, BonusVipQuestionnaire,
	BonusFreeSpin,
}

// CasinoBonusActionTypes are the casino_transactions action types that grant
// a bonus directly on the wallet. Used as the IN-list for live bonus queries.
var CasinoBonusActionTypes = []string{
	"amoe-bonus",
	"tier-bonus",
	"daily-bonus",
	"package-bonus",
	"first-purchase-bonus",
	"raffle-payout",
	"welcome bonus",
	"jackpotWinner",
	"provider-bonus",
	"referral-bonus",
	"affiliate-bonus",
	"promotion-bonus",
	"weekly-tier-bonus",
	"monthly-tier-bonus",
	"tournament",
	"scratch-card-bonus",
	"vip-questionnaire-bonus",
}

// BonusAmount is one category's figures inside a breakdown.
type BonusAmount struct {
	ScBonus    decimal.Decimal `json:"scBonus"`
	GcBonus    decimal.Decimal `json:"gcBonus"`
	TotalUsers int64           `json:"totalNoOfUsers"`
}

// BonusBreakdown maps canonical categories to their amounts. Missing
// categories read as zero.
type BonusBreakdown map[BonusCategory]BonusAmount

// Get returns the category's amount, or a zero amount when absent.
func (b BonusBreakdown) Get(c BonusCategory) BonusAmount {
	if b == nil {
		return BonusAmount{ScBonus: decimal.Zero, GcBonus: decimal.Zero}
	}
	a, ok := b[c]
	if !ok {
		return BonusAmount{ScBonus: decimal.Zero, GcBonus: decimal.Zero}
	}
	return a
}
