package main

import (
	"fmt"
	"strings"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/config"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/constants"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/logger"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type seedWorker struct {
	Email    string
	Name     string
	Code     string
	Role     string
	Password string
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultExecutive("", ""); err != nil {
		stdLog.Fatalf("Failed to init default executive: %v", err)
	}

	workers := []seedWorker{
		{Email: "bataa@gereltjin.local", Name: "Bataa", Code: "HS12", Role: constants.RoleWorker, Password: "worker123"},
		{Email: "saruul@gereltjin.local", Name: "Saruul", Code: "UB100", Role: constants.RoleWorker, Password: "worker123"},
		{Email: "tuya@gereltjin.local", Name: "Tuya", Code: "EE05", Role: constants.RoleExecutive, Password: "exec123456"},
	}

	workerIDs := map[string]uint{}
	for _, w := range workers {
		email := strings.ToLower(w.Email)
		var existing models.Worker
		if err := models.DB.Where("email = ?", email).First(&existing).Error; err == nil {
			stdLog.Printf("Worker already exists: %s", email)
			workerIDs[w.Code] = existing.ID
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(w.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash password for %s: %v", email, err)
		}
		record := models.Worker{
			Email:        email,
			PasswordHash: string(hash),
			Name:         w.Name,
			Code:         w.Code,
			Role:         w.Role,
		}
		if err := models.DB.Create(&record).Error; err != nil {
			stdLog.Printf("Failed to create worker %s: %v", email, err)
			continue
		}
		stdLog.Printf("Created worker: %s (%s)", email, w.Code)
		workerIDs[w.Code] = record.ID
	}

	type seedOrder struct {
		OrderNumber   string
		WorkerCode    string
		SenderName    string
		SenderPhone   string
		ReceiverName  string
		ReceiverPhone string
		CargoType     string
		Weight        string
		Price         string
		Status        string
	}
	demoOrders := []seedOrder{
		{OrderNumber: "HS12", WorkerCode: "HS12", SenderName: "Erdene", SenderPhone: "99112233", ReceiverName: "Oyun", ReceiverPhone: "88114455", CargoType: "Parcel", Weight: "2.500", Price: "15000", Status: constants.OrderStatusReceived},
		{OrderNumber: "HS13", WorkerCode: "HS12", SenderName: "Bold", SenderPhone: "99881122", ReceiverName: "Naran", ReceiverPhone: "95667788", CargoType: "Documents", Weight: "0.300", Price: "8000", Status: constants.OrderStatusPaid},
		{OrderNumber: "UB100", WorkerCode: "UB100", SenderName: "Ganzorig", SenderPhone: "91234567", ReceiverName: "Solongo", ReceiverPhone: "96543210", CargoType: "Furniture", Weight: "48.000", Price: "120000", Status: constants.OrderStatusDelivered},
	}

	for _, o := range demoOrders {
		workerID, ok := workerIDs[o.WorkerCode]
		if !ok {
			stdLog.Printf("Skipping order %s: worker %s missing", o.OrderNumber, o.WorkerCode)
			continue
		}
		var existing models.Order
		if err := models.DB.Where("order_number = ?", o.OrderNumber).First(&existing).Error; err == nil {
			stdLog.Printf("Order already exists: %s", o.OrderNumber)
			continue
		}
		weight := models.NewWeightFromDecimal(decimal.RequireFromString(o.Weight))
		price := models.NewMoneyFromDecimal(decimal.RequireFromString(o.Price))
		order := models.Order{
			OrderNumber:   o.OrderNumber,
			SenderName:    o.SenderName,
			SenderPhone:   o.SenderPhone,
			ReceiverName:  o.ReceiverName,
			ReceiverPhone: o.ReceiverPhone,
			CargoType:     o.CargoType,
			Weight:        &weight,
			Price:         &price,
			Status:        o.Status,
			WorkerID:      workerID,
		}
		if err := models.DB.Create(&order).Error; err != nil {
			stdLog.Printf("Failed to create order %s: %v", o.OrderNumber, err)
			continue
		}

		worker := findSeedWorker(workers, o.WorkerCode)
		entries := []models.OrderHistory{{
			OrderID:    order.ID,
			WorkerID:   workerID,
			WorkerName: worker,
			Action:     constants.HistoryActionCreated,
			NewStatus:  constants.OrderStatusReceived,
		}}
		if o.Status != constants.OrderStatusReceived {
			entries = append(entries, models.OrderHistory{
				OrderID:    order.ID,
				WorkerID:   workerID,
				WorkerName: worker,
				Action:     constants.HistoryActionStatusChanged,
				OldStatus:  constants.OrderStatusReceived,
				NewStatus:  o.Status,
				Changes: models.JSON(map[string]interface{}{
					"status": map[string]interface{}{"from": constants.OrderStatusReceived, "to": o.Status},
				}),
			})
		}
		for i := range entries {
			if err := models.DB.Create(&entries[i]).Error; err != nil {
				stdLog.Printf("Failed to create history for order %s: %v", o.OrderNumber, err)
			}
		}
		stdLog.Printf("Created order: %s (%s)", o.OrderNumber, o.Status)
	}

	fmt.Println("Seed finished.")
}

func findSeedWorker(workers []seedWorker, code string) string {
	for _, w := range workers {
		if w.Code == code {
			return w.Name
		}
	}
	return ""
}
