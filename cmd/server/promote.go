package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"teamhub/backend/internal/model"
)

var (
	promoteNumber int
	promoteRole   string
	promoteTag    string
)

// promoteCmd 가입은 항상 player 로 되므로 첫 매니저는 이 명령으로 지정한다
var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "등번호로 사용자 권한/직책 지정",
	RunE:  runPromote,
}

func init() {
	promoteCmd.Flags().IntVarP(&promoteNumber, "number", "n", -1, "대상 사용자 등번호")
	promoteCmd.Flags().StringVar(&promoteRole, "role", string(model.RoleManager), "권한 (player | manager)")
	promoteCmd.Flags().StringVar(&promoteTag, "tag", "", "직책 (예: 단장, 감독, 투수코치)")
	promoteCmd.MarkFlagRequired("number")
}

func runPromote(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.svc.User.AssignRole(cmd.Context(), promoteNumber, model.Role(promoteRole), promoteTag)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (#%d) → role=%s tag=%s\n", user.Name, user.Number, user.Role, user.Tag)
	return nil
}
