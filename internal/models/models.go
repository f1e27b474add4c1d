package models

// APIResponse is the standard JSON envelope for all API responses.
type APIResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total      int `json:"total,omitempty"`
	Page       int `json:"page,omitempty"`
	Limit      int `json:"limit,omitempty"`
	TotalPages int `json:"totalPages,omitempty"`
}

// Product types.
const (
	TypeCompression        = "CS"
	TypeConicalCompression = "CCS"
	TypeExtension          = "ES"
	TypeTorsion            = "TS"
	TypeDoubleTorsion      = "DTS"
	TypeWireForm           = "WF"
	TypePressPart          = "PP"
)

// Product lifecycle statuses.
const (
	ProductActive   = "ACTIVE"
	ProductInactive = "INACTIVE"
	ProductArchived = "ARCHIVED"
)

// MaxProductImages is the most images a product may carry.
const MaxProductImages = 6

// DimensionWithTolerance is a nominal millimetre value and its +/- tolerance.
type DimensionWithTolerance struct {
	ValueMM     float64 `json:"value_mm" mapstructure:"value_mm"`
	ToleranceMM float64 `json:"tolerance_mm" mapstructure:"tolerance_mm"`
}

type WorksInside struct {
	HoleDiaMM float64 `json:"holeDia_mm" mapstructure:"holeDia_mm"`
}

type WorksOver struct {
	ShaftDiaMM float64 `json:"shaftDia_mm" mapstructure:"shaftDia_mm"`
}

type HeatTreat struct {
	DegreeC *float64 `json:"degree_C,omitempty" mapstructure:"degree_C"`
	TimeMin *float64 `json:"time_min,omitempty" mapstructure:"time_min"`
}

type SpringRate struct {
	ValueNPerMM     float64 `json:"value_N_per_mm" mapstructure:"value_N_per_mm"`
	ToleranceNPerMM float64 `json:"tolerance_N_per_mm" mapstructure:"tolerance_N_per_mm"`
}

// GeneralInfo identifies the part for the customer and the shop floor.
type GeneralInfo struct {
	SymagPartNo        string   `json:"symagPartNo" mapstructure:"symagPartNo"`
	PartWeightNet      *float64 `json:"partWeightNet,omitempty" mapstructure:"partWeightNet"`
	CustomerCode       string   `json:"customerCode,omitempty" mapstructure:"customerCode"`
	CustomerPartNo     string   `json:"customerPartNo,omitempty" mapstructure:"customerPartNo"`
	CustomerPartNameNo string   `json:"customerPartNameNo,omitempty" mapstructure:"customerPartNameNo"`
	MOQ                *float64 `json:"moq,omitempty" mapstructure:"moq"`
}

// MaterialAndDimensions holds wire, coil and geometry data. Which groups are
// used depends on the product type.
type MaterialAndDimensions struct {
	MaterialType string `json:"materialType,omitempty" mapstructure:"materialType"`
	MtlSpec      string `json:"mtlSpec,omitempty" mapstructure:"mtlSpec"`
	GradeSteel   string `json:"gradeSteel,omitempty" mapstructure:"gradeSteel"`

	WireDia              *DimensionWithTolerance `json:"wireDia,omitempty" mapstructure:"wireDia"`
	OutsideDia           *DimensionWithTolerance `json:"outsideDia,omitempty" mapstructure:"outsideDia"`
	MeanDia              *DimensionWithTolerance `json:"meanDia,omitempty" mapstructure:"meanDia"`
	InsideDia            *DimensionWithTolerance `json:"insideDia,omitempty" mapstructure:"insideDia"`
	FreeLength           *DimensionWithTolerance `json:"freeLength,omitempty" mapstructure:"freeLength"`
	FreeLengthInsideHook *DimensionWithTolerance `json:"freeLengthInsideHook,omitempty" mapstructure:"freeLengthInsideHook"`
	BigOutsideDia        *DimensionWithTolerance `json:"bigOutsideDia,omitempty" mapstructure:"bigOutsideDia"`
	SmallOutsideDia      *DimensionWithTolerance `json:"smallOutsideDia,omitempty" mapstructure:"smallOutsideDia"`
	BigInsideDia         *DimensionWithTolerance `json:"bigInsideDia,omitempty" mapstructure:"bigInsideDia"`
	SmallInsideDia       *DimensionWithTolerance `json:"smallInsideDia,omitempty" mapstructure:"smallInsideDia"`

	Configuration string   `json:"configuration,omitempty" mapstructure:"configuration"`
	TotalCoils    *float64 `json:"totalCoils,omitempty" mapstructure:"totalCoils"`
	Helix         string   `json:"helix,omitempty" mapstructure:"helix"`
	ActiveCoils   *float64 `json:"activeCoils,omitempty" mapstructure:"activeCoils"`
	EndType       string   `json:"endType,omitempty" mapstructure:"endType"`
	HookType      string   `json:"hookType,omitempty" mapstructure:"hookType"`
	Orientation   string   `json:"orientation,omitempty" mapstructure:"orientation"`
	GapMM         *float64 `json:"gap_mm,omitempty" mapstructure:"gap_mm"`
	PitchMM       *float64 `json:"pitch_mm,omitempty" mapstructure:"pitch_mm"`
	Preset        *bool    `json:"preset,omitempty" mapstructure:"preset"`

	WorksInside *WorksInside `json:"worksInside,omitempty" mapstructure:"worksInside"`
	WorksOver   *WorksOver   `json:"worksOver,omitempty" mapstructure:"worksOver"`
	HeatTreat   *HeatTreat   `json:"heatTreat,omitempty" mapstructure:"heatTreat"`
}

// LoadsRatesDeflection holds the load test and finishing specification.
type LoadsRatesDeflection struct {
	SpringRate          *SpringRate             `json:"springRate,omitempty" mapstructure:"springRate"`
	LengthAtLoad1MM     *float64                `json:"lengthAtLoad1_mm,omitempty" mapstructure:"lengthAtLoad1_mm"`
	Load1N              *float64                `json:"load1_N,omitempty" mapstructure:"load1_N"`
	DeflectionAtLoad1MM *float64                `json:"deflectionAtLoad1_mm,omitempty" mapstructure:"deflectionAtLoad1_mm"`
	LengthAtLoad2MM     *float64                `json:"lengthAtLoad2_mm,omitempty" mapstructure:"lengthAtLoad2_mm"`
	Load2N              *float64                `json:"load2_N,omitempty" mapstructure:"load2_N"`
	DeflectionAtLoad2MM *float64                `json:"deflectionAtLoad2_mm,omitempty" mapstructure:"deflectionAtLoad2_mm"`
	SolidHeight         *DimensionWithTolerance `json:"solidHeight,omitempty" mapstructure:"solidHeight"`
	OperatingTempC      *float64                `json:"operatingTemp_C,omitempty" mapstructure:"operatingTemp_C"`
	Cycles              *int64                  `json:"cycles,omitempty" mapstructure:"cycles"`
	SurfaceTreatment    string                  `json:"surfaceTreatment,omitempty" mapstructure:"surfaceTreatment"`
	Remark              string                  `json:"remark,omitempty" mapstructure:"remark"`
	Date                string                  `json:"date,omitempty" mapstructure:"date"`
	PrepBy              string                  `json:"prepBy,omitempty" mapstructure:"prepBy"`
}

type ProductImage struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
}

// Product is a Part Master record.
type Product struct {
	ID                    string                `json:"id"`
	ProductName           string                `json:"productName"`
	ProductType           string                `json:"productType"`
	Status                string                `json:"status"`
	General               GeneralInfo           `json:"general"`
	MaterialAndDimensions MaterialAndDimensions `json:"materialAndDimensions"`
	LoadsRatesDeflection  LoadsRatesDeflection  `json:"loadsRatesDeflection"`
	Images                []ProductImage        `json:"images"`
	CreatedAt             string                `json:"createdAt"`
	UpdatedAt             string                `json:"updatedAt"`
	CreatedBy             string                `json:"createdBy"`
	UpdatedBy             string                `json:"updatedBy"`
}

// Sales order statuses.
const (
	SODraft      = "DRAFT"
	SOConfirmed  = "CONFIRMED"
	SOInProgress = "IN_PROGRESS"
	SOCompleted  = "COMPLETED"
	SOCancelled  = "CANCELLED"
)

// SalesOrder is a customer order made of product line items.
type SalesOrder struct {
	SalesOrderID         string           `json:"salesOrderId"`
	CustomerID           string           `json:"customerId"`
	CustomerName         string           `json:"customerName"`
	CreatedDate          string           `json:"createdDate"`
	CompletionTargetDate string           `json:"completionTargetDate"`
	Status               string           `json:"status"`
	Items                []SalesOrderItem `json:"items"`
	Remarks              string           `json:"remarks"`
	TotalAmount          float64          `json:"totalAmount"`
	CreatedBy            string           `json:"createdBy"`
	CreatedAt            string           `json:"createdAt"`
	UpdatedAt            string           `json:"updatedAt"`
}

// SalesOrderItem is one line of a sales order. JobCardNumber is always
// derived from the order id and the serial.
type SalesOrderItem struct {
	ItemSerialNo  int     `json:"itemSerialNo"`
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	ProductType   string  `json:"productType"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	TotalPrice    float64 `json:"totalPrice"`
	JobCardNumber string  `json:"jobCardNumber"`
}

// JobCard is the manufacturing instruction derived from one sales order item.
type JobCard struct {
	JobCardNumber        string   `json:"jobCardNumber"`
	SalesOrderID         string   `json:"salesOrderId"`
	ItemSerialNo         int      `json:"itemSerialNo"`
	ProductID            string   `json:"productId"`
	ProductDetails       *Product `json:"productDetails,omitempty"`
	Quantity             int      `json:"quantity"`
	CreatedDate          string   `json:"createdDate"`
	CompletionTargetDate string   `json:"completionTargetDate"`
	CustomerName         string   `json:"customerName"`
	Remarks              string   `json:"remarks"`
}

// Production order statuses.
const (
	OrderPending      = "PENDING"
	OrderInProduction = "IN_PRODUCTION"
	OrderCompleted    = "COMPLETED"
	OrderCancelled    = "CANCELLED"
)

// Production job card statuses.
const (
	JCPending    = "PENDING"
	JCInProgress = "IN_PROGRESS"
	JCCompleted  = "COMPLETED"
	JCOnHold     = "ON_HOLD"
	JCCancelled  = "CANCELLED"
)

// Order is a production order, one per manufactured line.
type Order struct {
	ID             string   `json:"id"`
	SalesOrderID   string   `json:"salesOrderId"`
	ItemSerialNo   int      `json:"itemSerialNo,omitempty"`
	ItemDetails    *Product `json:"itemDetails,omitempty"`
	JobCardID      string   `json:"jobCardId"`
	Quantity       int      `json:"quantity"`
	CreatedDate    string   `json:"createdDate"`
	CompletionDate *string  `json:"completionDate"`
	Status         string   `json:"status"`
	AssignedTo     string   `json:"assignedTo,omitempty"`
	Remarks        string   `json:"remarks,omitempty"`
}

// ProductionJobCard tracks shop-floor progress for an Order.
type ProductionJobCard struct {
	ID             string   `json:"id"`
	OrderID        string   `json:"orderId"`
	SalesOrderID   string   `json:"salesOrderId"`
	PartDetails    *Product `json:"partDetails,omitempty"`
	Quantity       int      `json:"quantity"`
	CreatedDate    string   `json:"createdDate"`
	StartDate      *string  `json:"startDate"`
	CompletionDate *string  `json:"completionDate"`
	Status         string   `json:"status"`
	Notes          string   `json:"notes,omitempty"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type TypeCount struct {
	ProductType string `json:"productType"`
	Count       int    `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// OrderSummary is the production overview shown on the dashboard.
type OrderSummary struct {
	TotalOrders           int           `json:"totalOrders"`
	CompletedOrders       int           `json:"completedOrders"`
	PendingOrders         int           `json:"pendingOrders"`
	InProductionOrders    int           `json:"inProductionOrders"`
	CancelledOrders       int           `json:"cancelledOrders"`
	OrdersByStatus        []StatusCount `json:"ordersByStatus"`
	OrdersByProductType   []TypeCount   `json:"ordersByProductType"`
	AverageCompletionTime float64       `json:"averageCompletionTime"`
	MedianCompletionTime  float64       `json:"medianCompletionTime"`
	MonthlyOrderData      []MonthCount  `json:"monthlyOrderData"`
}

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"createdAt"`
	LastLogin *string `json:"lastLogin"`
}

type AuditEntry struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Module    string `json:"module"`
	RecordID  string `json:"record_id"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"created_at"`
}
