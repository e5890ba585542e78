package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/dailystatus/internal/config"
	"github.com/dailystatus/internal/db"
	"github.com/dailystatus/internal/logger"
	"github.com/dailystatus/internal/service"
)

// 从 CSV/XLSX 导入员工主数据，供 /employee-by-id 自动填充使用。
//
//	go run ./scripts/seed_employees -file employees.csv
func main() {
	configPath := flag.String("config", "", "path to config file")
	file := flag.String("file", "", "employee file (.csv or .xlsx)")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: seed_employees -file employees.csv [-config config.yaml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 初始化数据库
	if err := db.Init(cfg.Database); err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal("failed to open employee file", zap.Error(err))
	}
	defer f.Close()

	rows, err := service.ReadEmployeeFile(*file, f)
	if err != nil {
		log.Fatal("failed to parse employee file", zap.Error(err))
	}

	result := service.NewEmployeeService(db.DB, log).Import(context.Background(), rows)

	failedRows := make([]int, 0, len(result.Failed))
	for row := range result.Failed {
		failedRows = append(failedRows, row)
	}
	sort.Ints(failedRows)
	for _, row := range failedRows {
		fmt.Printf("row %d: %s\n", row, result.Failed[row])
	}
	fmt.Printf("imported %d of %d employees\n", result.Imported, result.Total)
}
