package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers a back-office question using store data. The model gets
// read-only tools over inventory, sales and the credit book; every write
// still goes through the regular handlers.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the back-office assistant of a furniture shop that sells for cash and on hire-purchase.

RULES:
1. INVENTORY: For questions about price, cost, stock or product details, call 'check_inventory' and read the JSON. Do not claim you cannot see the inventory.
2. SALES: For revenue or order-count questions, call 'get_sales_report' with a date range.
3. CREDIT: For questions about late payers or overdue installments, call 'list_overdue_installments'.
4. CONTRACTS: To look up one agreement, call 'check_contract_status' with its contract number (e.g. HP-1a2b3c4d).

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full product list with ID, name, code, price, cost and stock for every item.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get total cash-sale revenue and order count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "list_overdue_installments",
					Description: "List hire-purchase installments that are past due and not fully paid.",
				},
				{
					Name:        "check_contract_status",
					Description: "Get the status, balance and schedule progress of one hire-purchase contract by its contract number.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"contract_number": {Type: genai.TypeString, Description: "Contract number like HP-1a2b3c4d"},
						},
						Required: []string{"contract_number"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_inventory":
				return executeCheckInventory(ctx, session)
			case "get_sales_report":
				return executeSalesReport(ctx, session, funcCall), nil
			case "list_overdue_installments":
				return executeOverdueInstallments(ctx, session)
			case "check_contract_status":
				return executeContractStatus(ctx, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

func executeCheckInventory(ctx context.Context, session *genai.ChatSession) (string, error) {
	var products []models.Product
	database.DB.Find(&products)

	type simpleProduct struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Code  string `json:"code"`
		Stock int    `json:"stock"`
		Price string `json:"price"`
		Cost  string `json:"cost"`
	}
	var simpleList []simpleProduct
	for _, p := range products {
		simpleList = append(simpleList, simpleProduct{
			ID:    p.ID,
			Name:  p.Name,
			Code:  p.Code,
			Stock: p.StockQuantity,
			Price: p.Price.String(),
			Cost:  p.Cost.String(),
		})
	}

	jsonBytes, _ := json.Marshal(simpleList)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr := args["start_date"].(string)
	endStr := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)

	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	summary, err := database.GetDashboardSummary(start, end)
	if err != nil {
		return "Error calculating sales."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     summary.Revenue,
			"sales_count": summary.Orders,
		},
	})
	return printResponse(finalResp)
}

func executeOverdueInstallments(ctx context.Context, session *genai.ChatSession) (string, error) {
	var rows []models.InstallmentPayment
	database.DB.
		Where("due_date < ? AND status IN ?", time.Now(),
			[]string{models.InstallmentStatusPending, models.InstallmentStatusPartial}).
		Order("due_date").
		Limit(50).
		Find(&rows)

	type overdueRow struct {
		ContractID uint   `json:"contract_id"`
		Number     int    `json:"installment_number"`
		DueDate    string `json:"due_date"`
		AmountDue  string `json:"amount_due"`
		AmountPaid string `json:"amount_paid"`
		Status     string `json:"status"`
	}
	var list []overdueRow
	for _, r := range rows {
		list = append(list, overdueRow{
			ContractID: r.ContractID,
			Number:     r.InstallmentNumber,
			DueDate:    r.DueDate.Format("2006-01-02"),
			AmountDue:  r.AmountDue.String(),
			AmountPaid: r.AmountPaid.String(),
			Status:     r.Status,
		})
	}

	jsonBytes, _ := json.Marshal(list)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "list_overdue_installments",
		Response: map[string]interface{}{"overdue": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func executeContractStatus(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	number, _ := funcCall.Args["contract_number"].(string)

	var contract models.HirePurchaseContract
	err := database.DB.Preload("Customer").Preload("Installments").
		Where("contract_number = ?", number).First(&contract).Error

	response := map[string]interface{}{}
	if err != nil {
		response["error"] = "No contract with that number"
	} else {
		paid := 0
		for _, ins := range contract.Installments {
			if ins.Status == models.InstallmentStatusPaid {
				paid++
			}
		}
		response["status"] = contract.Status
		response["customer"] = contract.Customer.Name
		response["remaining_amount"] = contract.RemainingAmount.String()
		response["monthly_payment"] = contract.MonthlyPayment.String()
		response["installments_paid"] = fmt.Sprintf("%d of %d", paid, contract.TermMonths)
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_contract_status",
		Response: response,
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
