package seed

import "springworks/internal/models"

func fp(v float64) *float64 { return &v }

func dim(v, tol float64) *models.DimensionWithTolerance {
	return &models.DimensionWithTolerance{ValueMM: v, ToleranceMM: tol}
}

func rate(v, tol float64) *models.SpringRate {
	return &models.SpringRate{ValueNPerMM: v, ToleranceNPerMM: tol}
}

// Products holds one sample part per product type.
var Products = []models.Product{
	{
		ProductName: "Standard Compression Spring - Steel",
		ProductType: models.TypeCompression,
		General: models.GeneralInfo{
			SymagPartNo: "CS-001-STL", PartWeightNet: fp(50), CustomerCode: "CUST-001",
			CustomerPartNo: "CP-001", CustomerPartNameNo: "Spring Type A", MOQ: fp(100),
		},
		MaterialAndDimensions: models.MaterialAndDimensions{
			MaterialType: "Steel", MtlSpec: "SAE 1070",
			WireDia: dim(2.0, 0.1), OutsideDia: dim(10.0, 0.2), FreeLength: dim(25.0, 0.5),
			Configuration: "Closed and Ground", TotalCoils: fp(9), ActiveCoils: fp(7), Helix: "RHS",
		},
		LoadsRatesDeflection: models.LoadsRatesDeflection{
			SpringRate: rate(15.5, 0.5), LengthAtLoad1MM: fp(20), Load1N: fp(100), DeflectionAtLoad1MM: fp(5),
			OperatingTempC: fp(80), SurfaceTreatment: "Zinc", Remark: "Suitable for automotive applications",
		},
	},
	{
		ProductName: "Conical Compression Spring - Stainless Steel",
		ProductType: models.TypeConicalCompression,
		General: models.GeneralInfo{
			SymagPartNo: "CCS-002-SS", PartWeightNet: fp(75), CustomerCode: "CUST-002",
			CustomerPartNo: "CP-002", CustomerPartNameNo: "Spring Type B", MOQ: fp(150),
		},
		MaterialAndDimensions: models.MaterialAndDimensions{
			MaterialType: "Stainless Steel", MtlSpec: "ASTM A228",
			WireDia: dim(2.5, 0.15), BigOutsideDia: dim(18.0, 0.3), SmallOutsideDia: dim(12.0, 0.25),
			FreeLength: dim(30.0, 0.6), TotalCoils: fp(8), ActiveCoils: fp(6), Helix: "LHS",
		},
		LoadsRatesDeflection: models.LoadsRatesDeflection{
			SpringRate: rate(18.2, 0.6), LengthAtLoad1MM: fp(25), Load1N: fp(150),
			OperatingTempC: fp(120), SurfaceTreatment: "Nickle", Remark: "Corrosion resistant for chemical industry",
		},
	},
	{
		ProductName: "Extension Spring - Alloy Steel",
		ProductType: models.TypeExtension,
		General: models.GeneralInfo{
			SymagPartNo: "ES-003-AS", PartWeightNet: fp(40), CustomerCode: "CUST-003", CustomerPartNo: "CP-003", MOQ: fp(200),
		},
		MaterialAndDimensions: models.MaterialAndDimensions{
			MaterialType: "Alloy Steel", MtlSpec: "SAE 9254",
			WireDia: dim(1.6, 0.02), OutsideDia: dim(12.0, 0.2), FreeLengthInsideHook: dim(45.0, 0.8),
			TotalCoils: fp(18.5), HookType: "Machine Hook", Orientation: "In line",
		},
		LoadsRatesDeflection: models.LoadsRatesDeflection{
			SpringRate: rate(4.2, 0.3), LengthAtLoad1MM: fp(60), Load1N: fp(63), SurfaceTreatment: "EP",
		},
	},
	{
		ProductName: "Torsion Spring - High Carbon Steel",
		ProductType: models.TypeTorsion,
		General: models.GeneralInfo{
			SymagPartNo: "TS-004-HC", PartWeightNet: fp(12), CustomerCode: "CUST-004", CustomerPartNo: "CP-004", MOQ: fp(500),
		},
		MaterialAndDimensions: models.MaterialAndDimensions{
			MaterialType: "High Carbon Steel", MtlSpec: "EN 10270-1",
			WireDia: dim(1.2, 0.02), InsideDia: dim(8.0, 0.15), TotalCoils: fp(6.25), Helix: "RHS",
			WorksOver: &models.WorksOver{ShaftDiaMM: 7.5},
		},
		LoadsRatesDeflection: models.LoadsRatesDeflection{OperatingTempC: fp(60), SurfaceTreatment: "Powder Coating"},
	},
	{
		ProductName: "Double Torsion Spring - Music Wire",
		ProductType: models.TypeDoubleTorsion,
		General: models.GeneralInfo{
			SymagPartNo: "DTS-005-MW", CustomerCode: "CUST-005", CustomerPartNo: "CP-005", MOQ: fp(250),
		},
		MaterialAndDimensions: models.MaterialAndDimensions{
			MaterialType: "Music Wire", MtlSpec: "ASTM A228",
			WireDia: dim(1.0, 0.01), InsideDia: dim(6.0, 0.1), TotalCoils: fp(5), Helix: "LHS",
		},
	},
	{
		ProductName: "Wire Form Clip - Stainless",
		ProductType: models.TypeWireForm,
		General: models.GeneralInfo{
			SymagPartNo: "WF-006-SS", CustomerCode: "CUST-006", CustomerPartNo: "CP-006", MOQ: fp(1000),
		},
		MaterialAndDimensions: models.MaterialAndDimensions{
			MaterialType: "Stainless Steel", MtlSpec: "SS 302", WireDia: dim(0.8, 0.01),
			HeatTreat: &models.HeatTreat{DegreeC: fp(250), TimeMin: fp(30)},
		},
	},
	{
		ProductName: "Press Part Washer - Spring Steel",
		ProductType: models.TypePressPart,
		General: models.GeneralInfo{
			SymagPartNo: "PP-007-SS", PartWeightNet: fp(3), CustomerCode: "CUST-007", CustomerPartNo: "CP-007", MOQ: fp(2000),
		},
		MaterialAndDimensions: models.MaterialAndDimensions{MaterialType: "Spring Steel", GradeSteel: "CK 67"},
		LoadsRatesDeflection:  models.LoadsRatesDeflection{SurfaceTreatment: "Zinc"},
	},
}

type fixtureLine struct {
	product   int
	quantity  int
	unitPrice float64
}

type fixtureOrder struct {
	customerID   string
	customerName string
	created      string
	target       string
	status       string
	remarks      string
	lines        []fixtureLine
}

// salesOrders reference Products by index.
var salesOrders = []fixtureOrder{
	{"CUST-001", "ABC Manufacturing", "2024-01-15", "2024-02-15", models.SOCompleted, "Completed ahead of schedule",
		[]fixtureLine{{0, 500, 2.75}, {1, 600, 3.4}}},
	{"CUST-002", "XYZ Industries", "2024-01-17", "2024-02-20", models.SOInProgress, "In production",
		[]fixtureLine{{2, 300, 1.9}}},
	{"CUST-003", "Global Springs Ltd", "2024-01-19", "2024-02-25", models.SOInProgress, "On track for delivery",
		[]fixtureLine{{3, 1000, 0.85}, {4, 250, 1.2}, {0, 100, 2.75}}},
	{"CUST-004", "Tech Components Inc", "2024-01-21", "2024-03-01", models.SOConfirmed, "Awaiting production",
		[]fixtureLine{{5, 5000, 0.12}}},
	{"CUST-005", "Industrial Solutions", "2024-01-23", "2024-03-05", models.SODraft, "Recently received",
		[]fixtureLine{{6, 2000, 0.3}, {2, 150, 1.9}}},
}

type fixtureUser struct {
	username string
	password string
	email    string
	role     string
}

var users = []fixtureUser{
	{"admin", "changeme", "admin@example.com", models.RoleAdmin},
	{"planner", "changeme", "planner@example.com", models.RoleUser},
}
