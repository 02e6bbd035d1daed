// Package queries carries the regional extraction SQL and the per-feed
// wiring: which regions feed it, the destination table, and which columns
// need date cleanup. The SQL is owned by the regional DBAs; treat the texts
// as opaque and only rely on the declared parameter arity and output columns.
package queries

import "petmis/internal/services/etl/domain"

// Destination tables in the MIS store
const (
	TableQuote      = "Quote"
	TableSales      = "Sales"
	TableFreePolicy = "FreePolicySales"
)

// DestTable returns the MIS table a feed loads into
func DestTable(kind domain.Kind) string {
	switch kind {
	case domain.KindSales:
		return TableSales
	case domain.KindFreePolicy:
		return TableFreePolicy
	default:
		return TableQuote
	}
}

// CleanupColumns lists the date columns the transformer normalizes per feed
func CleanupColumns(kind domain.Kind) []string {
	switch kind {
	case domain.KindSales:
		return []string{"CreatedDate", "ActualStartDate", "ETLDateUploaded"}
	case domain.KindFreePolicy:
		return []string{"CreatedDate", "ETLDateUploaded"}
	default:
		return []string{
			"CreatedDate", "QuoteStartDate", "QuoteExpiryDate",
			"PolicyStartDate", "PolicyEndDate", "PetBirthDate",
			"ETLDateUploaded",
		}
	}
}

// RegionCodes is the fixed fleet order; concat and reporting preserve it
var RegionCodes = []string{"NZ", "AU", "UK", "DE", "AT"}

// Regions returns the extraction plan for a feed in fleet order
func Regions(kind domain.Kind) []domain.Region {
	var anz, eur string
	anzArity, eurArity := 2, 2
	switch kind {
	case domain.KindSales:
		anz, eur = auNZSales, ukDEATSales
	case domain.KindFreePolicy:
		anz, eur = auNZFreePolicy, ukDEATFreePolicy
	default:
		anz, eur = auNZQuote, ukDEATQuote
		eurArity = 4 // two unioned subqueries, each binds the window
	}
	return []domain.Region{
		{Code: "NZ", Name: "New Zealand", Query: anz, Arity: anzArity},
		{Code: "AU", Name: "Australia", Query: anz, Arity: anzArity},
		{Code: "UK", Name: "United Kingdom", Query: eur, Arity: eurArity},
		{Code: "DE", Name: "Germany", Query: eur, Arity: eurArity, BrandOverride: "Petcover"},
		{Code: "AT", Name: "Austria", Query: eur, Arity: eurArity, BrandOverride: "Petcover"},
	}
}

// The end date binds exclusively in SQL via DATEADD(DAY, 1, ?), so callers
// pass the window's inclusive end.

const auNZQuote = `
WITH quoteData AS (
    SELECT
        Q.Id,
        (ISNULL(Q.FirstName, C.FirstName) + ' ' + ISNULL(Q.LastName, C.LastName)) AS FullName,
        Q.Email,
        ISNULL(Q.PostCode, C.Postcode) AS PostCode,
        Q.PetName,
        PTY.PetTypeName AS PetType,
        Q.QuoteNumber,
        Q.CreatedDate,
        Q.QuoteDate,
        Q.ExpireDate,
        Q.PetBirthDate,
        PP.ActualStartDate AS PolicyStartDate,
        PP.ActualEndDate AS PolicyEndDate,
        PP.CreatedDate AS PolicyCreatedDate,
        MB.BreedName,
        COALESCE(Q.Mobile, Q.PrimaryContactNumber, C.PrimaryContactNumber) AS ContactNo,
        CAST(CONCAT(ISNULL(Q.Address1, C.Address1), ', ', ISNULL(Q.Address2, C.Address2)) AS NVARCHAR(MAX)) AS Address,
        ISNULL(Q.Suburb, C.Suburb) AS Suburb,
        CASE WHEN Q.QuoteSaveFrom = 2 THEN 'Web' ELSE 'Phone' END AS QuoteReceivedMethod,
        PA.PolicyNumber,
        ROW_NUMBER() OVER (PARTITION BY CAST(Q.CreatedDate AS DATE), Q.Email, PTY.PetTypeName, Q.PetName
            ORDER BY Q.Id DESC) AS rowno
    FROM Quote Q WITH(NOLOCK)
    LEFT JOIN Client C WITH(NOLOCK) ON Q.ClientId = C.Id
    LEFT JOIN VuePetType PTY WITH(NOLOCK) ON Q.PetTypeId = PTY.PetType_ID
    LEFT JOIN PolicyActivity PA ON PA.QuoteId = Q.Id
    LEFT JOIN Policy PP ON PP.Id = PA.PolicyId
    LEFT JOIN [Master].[Breed] MB ON MB.Id = COALESCE(NULLIF(Q.PetBreedId, 0), NULLIF(Q.PetSeconderyBreedId, 0))
    WHERE
        CAST(Q.CreatedDate AS DATE) >= ?
        AND CAST(Q.CreatedDate AS DATE) < DATEADD(DAY, 1, ?)
        AND Q.QuoteParentId IS NULL
        AND Q.FirstName NOT LIKE '%test%'
        AND Q.LastName NOT LIKE '%test%'
        AND Q.Email NOT LIKE '%petcovergroup%'
        AND Q.PetName NOT LIKE '%test%'
)
SELECT
    'Petcover' AS Brand,
    PolicyCreatedDate,
    QuoteNumber, CreatedDate, QuoteDate AS QuoteStartDate, ExpireDate AS QuoteExpiryDate,
    QuoteReceivedMethod, PolicyNumber, PolicyStartDate, PolicyEndDate,
    FullName, Email, Address, Suburb, PostCode, ContactNo,
    PetName, PetType, PetBirthDate, BreedName
FROM quoteData
WHERE rowno = 1
`

const ukDEATQuote = `
WITH quoteData AS (
    SELECT
        Q.Id,
        (ISNULL(Q.FirstName, C.FirstName) + ' ' + ISNULL(Q.LastName, C.LastName)) AS FullName,
        Q.Email,
        ISNULL(Q.PostCode, C.Postcode) AS PostCode,
        Q.PetName,
        CASE WHEN Q.ProductId = 2053 THEN 'BB_Commercial' ELSE PTY.PetTypeName END AS PetType,
        Q.QuoteNumber,
        Q.CreatedDate,
        Q.QuoteDate,
        Q.ExpireDate,
        Q.PetBirthDate,
        ISNULL(Q.IsPetIdProduct, 0) AS IsPetId,
        PP.ActualStartDate AS PolicyStartDate,
        PP.ActualEndDate AS PolicyEndDate,
        PP.CreatedDate AS PolicyCreatedDate,
        MB.BreedName,
        COALESCE(Q.Mobile, Q.PrimaryContactNumber, C.PrimaryContactNumber) AS ContactNo,
        CAST(CONCAT(ISNULL(Q.Address1, C.Address1), ', ', ISNULL(Q.Address2, C.Address2)) AS NVARCHAR(MAX)) AS Address,
        ISNULL(Q.Suburb, C.Suburb) AS Suburb,
        CASE WHEN Q.QuoteSaveFrom = 2 THEN 'Web' ELSE 'Phone' END AS QuoteReceivedMethod,
        PA.PolicyNumber,
        ROW_NUMBER() OVER (PARTITION BY CAST(Q.CreatedDate AS DATE), Q.Email, PTY.PetTypeName, Q.PetName
            ORDER BY Q.Id DESC) AS rowno
    FROM Quote Q WITH(NOLOCK)
    LEFT JOIN Client C WITH(NOLOCK) ON Q.ClientId = C.Id
    LEFT JOIN VuePetType PTY WITH(NOLOCK) ON Q.PetTypeId = PTY.PetType_ID
    LEFT JOIN PolicyActivity PA ON PA.QuoteId = Q.Id
    LEFT JOIN Policy PP ON PP.Id = PA.PolicyId
    LEFT JOIN [Master].[Breed] MB ON MB.Id = COALESCE(NULLIF(Q.PetBreedId, 0), NULLIF(Q.PetSeconderyBreedId, 0))
    WHERE
        CAST(Q.CreatedDate AS DATE) >= ?
        AND CAST(Q.CreatedDate AS DATE) < DATEADD(DAY, 1, ?)
        AND Q.CreatedBy IS NOT NULL
        AND Q.QuoteSaveFrom IS NOT NULL
        AND Q.QuoteParentId IS NULL
        AND Q.FirstName NOT LIKE '%test%'
        AND Q.LastName NOT LIKE '%test%'
        AND Q.Email NOT LIKE '%petcovergroup%'
        AND Q.PetName NOT LIKE '%test%'

    UNION

    SELECT
        Q.Id,
        (ISNULL(Q.FirstName, C.FirstName) + ' ' + ISNULL(Q.LastName, C.LastName)) AS FullName,
        Q.Email,
        ISNULL(Q.PostCode, C.Postcode) AS PostCode,
        Q.PetName,
        PTY.PetTypeName AS PetType,
        Q.QuoteNumber,
        Q.CreatedDate,
        Q.QuoteDate,
        Q.ExpireDate,
        Q.PetBirthDate,
        ISNULL(Q.IsPetIdProduct, 0) AS IsPetId,
        PP.ActualStartDate AS PolicyStartDate,
        PP.ActualEndDate AS PolicyEndDate,
        PP.CreatedDate AS PolicyCreatedDate,
        MB.BreedName,
        COALESCE(Q.Mobile, Q.PrimaryContactNumber, C.PrimaryContactNumber) AS ContactNo,
        CAST(CONCAT(ISNULL(Q.Address1, C.Address1), ', ', ISNULL(Q.Address2, C.Address2)) AS NVARCHAR(MAX)) AS Address,
        ISNULL(Q.Suburb, C.Suburb) AS Suburb,
        CASE WHEN Q.QuoteSaveFrom = 2 THEN 'Web' ELSE 'Phone' END AS QuoteReceivedMethod,
        PA.PolicyNumber,
        ROW_NUMBER() OVER (PARTITION BY CAST(Q.CreatedDate AS DATE), Q.Email, PTY.PetTypeName, Q.PetName
            ORDER BY Q.Id DESC) AS rowno
    FROM Quote Q WITH(NOLOCK)
    LEFT JOIN Client C WITH(NOLOCK) ON Q.ClientId = C.Id
    LEFT JOIN VuePetType PTY WITH(NOLOCK) ON Q.PetTypeId = PTY.PetType_ID
    LEFT JOIN PolicyActivity PA ON PA.QuoteId = Q.Id
    LEFT JOIN Policy PP ON PP.Id = PA.PolicyId
    LEFT JOIN [Master].[Breed] MB ON MB.Id = COALESCE(NULLIF(Q.PetBreedId, 0), NULLIF(Q.PetSeconderyBreedId, 0))
    WHERE
        CAST(Q.CreatedDate AS DATE) >= ?
        AND CAST(Q.CreatedDate AS DATE) < DATEADD(DAY, 1, ?)
        AND Q.QuoteParentId IS NULL
        AND Q.ExecutiveId IS NOT NULL
        AND Q.FirstName NOT LIKE '%test%'
        AND Q.LastName NOT LIKE '%test%'
        AND Q.Email NOT LIKE '%petcovergroup%'
        AND Q.PetName NOT LIKE '%test%'
)
SELECT
    CASE
        WHEN qd.PetType = 'BB_Commercial' THEN 'BB'
        WHEN qd.IsPetId = 0 THEN 'BPIS'
        WHEN qd.IsPetId = 1 THEN 'PetId'
        ELSE 'Unknown'
    END AS Brand,
    PolicyCreatedDate,
    QuoteNumber, CreatedDate, QuoteDate AS QuoteStartDate, ExpireDate AS QuoteExpiryDate,
    QuoteReceivedMethod, PolicyNumber, PolicyStartDate, PolicyEndDate,
    FullName, Email, Address, Suburb, PostCode, ContactNo,
    PetName, PetType, PetBirthDate, BreedName
FROM quoteData qd
WHERE rowno = 1
`

const auNZSales = `
WITH policyData AS (
    SELECT
        P.CreatedDate,
        P.PolicyNumber,
        P.ActualStartDate,
        PO.ProductName,
        CASE
            WHEN PO.ProductCode LIKE '%CAT%' THEN 'Cat'
            WHEN PO.ProductCode LIKE '%DOG%' THEN 'Dog'
            WHEN PO.ProductCode LIKE '%EQUINE%' THEN 'Horse'
            WHEN PO.ProductCode LIKE '%HORSE%' THEN 'Horse'
            WHEN PO.ProductCode LIKE '%EXOTIC%' THEN 'Exotic'
            ELSE 'OTHER'
        END AS PetType,
        C.FirstName AS ClientName,
        P.PetName,
        CASE WHEN U.FirstName IN ('FIT', 'Web') THEN 'Web' ELSE 'Phone' END AS SaleMethod,
        Q.QuoteNumber,
        Q.CreatedDate AS QuoteCreatedDate
    FROM Policy P
    LEFT JOIN PolicyCancellation PC ON PC.PolicyId = P.Id
    LEFT JOIN Client C ON P.ClientId = C.Id
    LEFT JOIN PolicyActivity PA ON PA.PolicyId = P.Id AND PA.TransactionTypeId = 1
    INNER JOIN [dbo].[Product] PO ON PO.Id = PA.ProductId
    LEFT JOIN Quote Q ON Q.Id = PA.QuoteId
    LEFT JOIN [dbo].[User] U ON P.ExecutiveId = U.Id
    WHERE
        CAST(P.CreatedDate AS DATE) >= ?
        AND CAST(P.CreatedDate AS DATE) < DATEADD(DAY, 1, ?)
        AND ISNULL(P.IsFreeProduct, 0) = 0
        AND ISNULL(P.IsMigrated, 0) = 0
        AND P.InsuredName NOT LIKE '%test%'
        AND P.PetName NOT LIKE '%test%'
        AND C.Email NOT LIKE '%petcovergroup%'
        AND P.ExecutiveId IS NOT NULL
        AND (PC.Id IS NULL OR PC.CreatedDate >= DATEADD(DAY, 1, P.CreatedDate))
)
SELECT
    'Petcover' AS Brand,
    PolicyNumber, CreatedDate, ActualStartDate, ProductName, PetType,
    ClientName, PetName, SaleMethod, QuoteNumber, QuoteCreatedDate
FROM policyData
`

const ukDEATSales = `
WITH policyData AS (
    SELECT
        P.CreatedDate,
        P.PolicyNumber,
        P.ActualStartDate,
        PO.ProductName,
        ISNULL(P.IsPetIdProduct, 0) AS IsPetId,
        CASE
            WHEN Q.ProductId = 2053 THEN 'BB_Commercial'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%cat%' THEN 'Cat'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%dog%' THEN 'Dog'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%horse%' THEN 'Horse'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%exotic%' THEN 'Exotic'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%bb_com%' THEN 'BB'
            ELSE 'Others'
        END AS PetType,
        C.FirstName AS ClientName,
        P.PetName,
        CASE WHEN U.FirstName IN ('FIT', 'Web') THEN 'Web' ELSE 'Phone' END AS SaleMethod,
        Q.QuoteNumber,
        Q.CreatedDate AS QuoteCreatedDate
    FROM Policy P
    LEFT JOIN PolicyCancellation PC ON PC.PolicyId = P.Id
    LEFT JOIN Client C ON P.ClientId = C.Id
    LEFT JOIN PolicyActivity PA ON PA.PolicyId = P.Id AND PA.TransactionTypeId = 1
    INNER JOIN [dbo].[Product] PO ON PO.Id = PA.ProductId
    LEFT JOIN Quote Q ON Q.Id = PA.QuoteId
    LEFT JOIN [dbo].[User] U ON P.ExecutiveId = U.Id
    WHERE
        CAST(P.CreatedDate AS DATE) >= ?
        AND CAST(P.CreatedDate AS DATE) < DATEADD(DAY, 1, ?)
        AND ISNULL(P.IsFreeProduct, 0) = 0
        AND P.PolicyNumber NOT LIKE '%TEST%'
        AND C.Email NOT LIKE '%petcovergroup%'
        AND (PC.Id IS NULL OR PC.CreatedDate >= DATEADD(DAY, 1, P.CreatedDate))
)
SELECT
    CASE
        WHEN pd.PetType LIKE '%BB_COM%' THEN 'BB'
        WHEN pd.IsPetId = 1 THEN 'PetId'
        ELSE 'BPIS'
    END AS Brand,
    PolicyNumber, CreatedDate, ActualStartDate, ProductName, PetType,
    ClientName, PetName, SaleMethod, QuoteNumber, QuoteCreatedDate
FROM policyData pd
`

const auNZFreePolicy = `
WITH fp AS (
    SELECT
        Q.QuoteNumber,
        P.PolicyNumber,
        P.CreatedDate,
        SA.Name AS SubAgentName,
        SA.AgentCategoryId,
        CASE
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%cat%' THEN 'Cat'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%dog%' THEN 'Dog'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%horse%' THEN 'Horse'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%exotic%' THEN 'Exotic'
            ELSE 'Others'
        END AS PetType,
        PO.ProductName,
        ST.StateName,
        CASE WHEN U.FirstName IN ('FIT', 'Web') THEN 'Web' ELSE 'Phone' END AS SaleMethod,
        PS.PolicyStatusName
    FROM Policy P
    INNER JOIN PolicyActivity PA ON PA.PolicyId = P.Id AND PA.TransactionTypeId = 1
    LEFT JOIN [Master].[PolicyStatus] PS ON PS.Id = P.PolicyStatusId
    LEFT JOIN [dbo].[Product] PO ON PO.Id = PA.ProductId
    LEFT JOIN Quote Q ON Q.Id = PA.QuoteId
    LEFT JOIN SubAgent SA ON SA.Id = Q.SubAgentId
    LEFT JOIN [Master].[State] ST ON ST.Id = SA.StateId
    LEFT JOIN [dbo].[User] U ON P.ExecutiveId = U.Id
    WHERE
        P.IsFreeProduct = 1
        AND P.PolicyNumber NOT LIKE '%TEST%'
        AND ISNULL(SA.Email, '') NOT LIKE '%TEST%'
        AND CAST(P.CreatedDate AS DATE) >= ?
        AND CAST(P.CreatedDate AS DATE) < DATEADD(DAY, 1, ?)
)
SELECT
    QuoteNumber, PolicyNumber, CreatedDate, SubAgentName, AgentCategoryId,
    PetType, ProductName, StateName, SaleMethod, PolicyStatusName,
    'Petcover' AS Brand
FROM fp
`

const ukDEATFreePolicy = `
WITH fp AS (
    SELECT
        ISNULL(P.IsPetIdProduct, 0) AS PetId,
        Q.QuoteNumber,
        P.PolicyNumber,
        P.CreatedDate,
        SA.Name AS SubAgentName,
        SA.AgentCategoryId,
        CASE
            WHEN Q.ProductId = 2053 THEN 'BB_Commercial'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%cat%' THEN 'Cat'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%dog%' THEN 'Dog'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%horse%' THEN 'Horse'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%exotic%' THEN 'Exotic'
            WHEN LOWER(COALESCE(PO.ProductCode, '')) LIKE '%bb_com%' THEN 'BB'
            ELSE 'Others'
        END AS PetType,
        PO.ProductName,
        ST.StateName,
        CASE WHEN U.FirstName IN ('FIT', 'Web') THEN 'Web' ELSE 'Phone' END AS SaleMethod,
        PS.PolicyStatusName
    FROM Policy P
    INNER JOIN PolicyActivity PA ON PA.PolicyId = P.Id AND PA.TransactionTypeId = 1
    LEFT JOIN [Master].[PolicyStatus] PS ON PS.Id = P.PolicyStatusId
    LEFT JOIN [dbo].[Product] PO ON PO.Id = PA.ProductId
    LEFT JOIN Quote Q ON Q.Id = PA.QuoteId
    LEFT JOIN SubAgent SA ON SA.Id = Q.SubAgentId
    LEFT JOIN [Master].[State] ST ON ST.Id = SA.StateId
    LEFT JOIN [dbo].[User] U ON P.ExecutiveId = U.Id
    WHERE
        P.IsFreeProduct = 1
        AND P.PolicyNumber NOT LIKE '%TEST%'
        AND ISNULL(SA.Email, '') NOT LIKE '%TEST%'
        AND CAST(P.CreatedDate AS DATE) >= ?
        AND CAST(P.CreatedDate AS DATE) < DATEADD(DAY, 1, ?)
)
SELECT
    QuoteNumber, PolicyNumber, CreatedDate, SubAgentName, AgentCategoryId,
    PetType, ProductName, StateName, SaleMethod, PolicyStatusName,
    CASE
        WHEN fp.PetId = 1 THEN 'PetId'
        WHEN fp.PetType LIKE '%BB_COM%' THEN 'BB'
        ELSE 'BPIS'
    END AS Brand
FROM fp
`
