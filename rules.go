package main

import (
	"math/rand/v2"
)

// CameraRule is the resolved, serializable camera workflow published
// with a scenario. The selection logic itself never leaves the server.
type CameraRule struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	MainCam string `json:"mainCam"`
	SubCam  string `json:"subCam"`
	Note    string `json:"note,omitempty"`
}

var (
	ruleAdjacent = CameraRule{
		ID:      1,
		Title:   "인접/근접 대결",
		MainCam: "그룹 샷 (NP와 OP를 함께 촬영)",
		SubCam:  "보드 샷",
	}
	ruleDistantTight = CameraRule{
		ID:      2,
		Title:   "원거리 대결",
		MainCam: "NP A컷 (NP만 타이트하게 촬영)",
		SubCam:  "상대방 + 보드 샷",
	}
	ruleDistantGroup = CameraRule{
		ID:      3,
		Title:   "원거리 대결 (샷 중첩)",
		MainCam: "그룹 샷 (NP와 OP를 함께 촬영)",
		SubCam:  "보드 샷",
		Note:    "서브캠에 NP가 걸리는 경우, 즉시 이 워크플로우로 전환.",
	}
)

// circularDistance is the seat distance around the 9-seat table.
func circularDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if seatCount-d < d {
		return seatCount - d
	}
	return d
}

// selectRule resolves the camera workflow for the distance between the
// NP seat and the primary OP seat. Adjacent matchups always get the
// group-shot rule; distant matchups split 60/40 between the tight-NP
// and overlapping-group workflows.
func selectRule(distance int, rng *rand.Rand) CameraRule {
	if distance <= 2 {
		return ruleAdjacent
	}
	if rng.Float64() < 0.6 {
		return ruleDistantTight
	}
	return ruleDistantGroup
}
