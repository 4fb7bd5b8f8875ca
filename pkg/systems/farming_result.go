package systems

import "github.com/decker502/farmstead/pkg/types"

// Reason 农田动作结果代码
// 校验失败是常见情况，以结果值返回而不是 error
type Reason string

const (
	ReasonOK            Reason = "ok"
	ReasonNoTool        Reason = "no_tool"
	ReasonToolBroken    Reason = "tool_broken"
	ReasonNoWater       Reason = "no_water"
	ReasonNoSeed        Reason = "no_seed"
	ReasonNoItem        Reason = "no_item"
	ReasonUnknownCrop   Reason = "unknown_crop"
	ReasonExhausted     Reason = "exhausted"
	ReasonInvalidState  Reason = "invalid_state"
	ReasonAlreadyTilled Reason = "already_tilled"
	ReasonNotTilled     Reason = "not_tilled"
	ReasonOccupied      Reason = "occupied"
	ReasonNoCrop        Reason = "no_crop"
	ReasonNotReady      Reason = "not_ready"
	ReasonDebris        Reason = "debris"
	ReasonNoDebris      Reason = "no_debris"
	ReasonWrongTool     Reason = "wrong_tool"
	ReasonOutOfSeason   Reason = "out_of_season"
	ReasonOutOfBounds   Reason = "out_of_bounds"
	ReasonNoActor       Reason = "no_actor"
	ReasonMaxLevel      Reason = "max_level"
	ReasonNoMoney       Reason = "no_money"

	// 钓鱼
	ReasonBusy    Reason = "busy"
	ReasonExpired Reason = "expired"
)

// ActionResult 农田动作结果
type ActionResult struct {
	OK          bool
	Reason      Reason
	StaminaCost float64

	// 收获时填写
	Quality types.Quality
	Amount  int
}

func fail(r Reason) ActionResult {
	return ActionResult{Reason: r}
}

func succeed(cost float64) ActionResult {
	return ActionResult{OK: true, Reason: ReasonOK, StaminaCost: cost}
}
