package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
)

var penalizeCmd = &cobra.Command{
	Use:   "penalize",
	Short: "미투표 벌점과 일정 상태 전이를 한 번 실행",
	Long:  "시작 시각이 지난 일정의 미투표자에게 벌점을 주고, 종료된 일정을 완료 처리하고, 기한이 지난 스태프 요청을 만료시킨다.",
	RunE:  runPenalize,
}

func runPenalize(cmd *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	result, err := a.svc.Lifecycle.Sweep(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
