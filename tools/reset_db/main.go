package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"gamehub/config"

	"github.com/go-sql-driver/mysql"
)

// 子表在前，父表在后
var tables = []string{
	"post_like",
	"comment",
	"forum_post",
	"review",
	"purchase",
	"game_genre",
	"event_participant",
	"event",
	"friend_relationship",
	"chat_message",
	"notification",
	"game",
	"user",
}

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "path to config.yaml")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	cfg := config.LoadConfigFrom(*configPath).Database

	dsn := mysql.NewConfig()
	dsn.User = cfg.Username
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	dsn.DBName = cfg.Database
	dsn.ParseTime = true
	dsn.Params = map[string]string{"charset": cfg.Charset}

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Database connection test failed: %v", err)
	}
	fmt.Printf("Connected to %s at %s\n", cfg.Database, dsn.Addr)

	if !*yes {
		fmt.Printf("\nWARNING: This operation will CLEAR ALL DATA in tables [%s]!\n", strings.Join(tables, ", "))
		fmt.Print("Type 'YES' to confirm: ")
		var confirm string
		_, _ = fmt.Scanln(&confirm)
		if confirm != "YES" {
			fmt.Println("Operation cancelled")
			return
		}
	}

	_, _ = db.Exec("SET FOREIGN_KEY_CHECKS=0")
	defer func() { _, _ = db.Exec("SET FOREIGN_KEY_CHECKS=1") }()

	failed := 0
	for _, table := range tables {
		fmt.Printf("Clearing %s... ", table)
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM `%s`", table)); err != nil {
			var myErr *mysql.MySQLError
			// 1146: 表不存在（尚未迁移）
			if errors.As(err, &myErr) && myErr.Number == 1146 {
				fmt.Println("skipped (missing)")
				continue
			}
			failed++
			fmt.Printf("failed: %v\n", err)
			continue
		}
		if _, err := db.Exec(fmt.Sprintf("ALTER TABLE `%s` AUTO_INCREMENT = 1", table)); err != nil {
			fmt.Printf("cleared, auto-increment reset failed: %v\n", err)
			continue
		}
		fmt.Println("ok")
	}

	if failed > 0 {
		log.Fatalf("%d table(s) could not be cleared", failed)
	}
	fmt.Println("\nDatabase reset complete")
}
