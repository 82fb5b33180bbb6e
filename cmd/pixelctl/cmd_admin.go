package main

import (
	"errors"
	"fmt"

	"github.com/pixelpages/internal/db"
	"github.com/spf13/cobra"
)

func runSeed(cmd *cobra.Command, args []string) error {
	inserted, err := db.SeedAchievements(db.DB)
	if err != nil {
		return err
	}
	if inserted == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "成就目录已存在，无需初始化")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "已写入 %d 个成就定义\n", inserted)
	return nil
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	user, err := db.CreateUser(db.DB, args[0], args[1])
	if err != nil {
		if errors.Is(err, db.ErrUserExists) {
			return fmt.Errorf("用户 %s 已存在", args[0])
		}
		return fmt.Errorf("创建用户失败: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "用户 %s 创建成功\n", user.Username)
	return nil
}
