package registry

import "slices"

// Canonical column names of the registry sheet. The engine and report
// compiler reference columns exclusively through these constants.
const (
	ColName             = "NOMBRES Y APELLIDOS"
	ColCedula           = "CEDULA"
	ColStatus           = "ESTATUS"
	ColStatusChanged    = "FECHA CAMBIO ESTATUS"
	ColAge              = "EDAD"
	ColSex              = "SEXO"
	ColCountry          = "PAIS DE ORIGEN"
	ColBirthDate        = "FECHA DE NACIMIENTO"
	ColBirthPlace       = "LUGAR DE NACIMIENTO"
	ColRegion           = "REGION"
	ColEstablishment    = "ESTABLECIMIENTO PENITENCIARIO"
	ColLocation         = "UBICACION"
	ColCell             = "CELDA"
	ColCrime            = "DELITO CON MAYOR GRAVEDAD"
	ColCrimeRecord      = "DELITO DE EXPEDIENTE"
	ColCrimeIndex       = "INDICE DELICTIVO"
	ColNotoriety        = "CASO CONMOCION PUBLICA"
	ColDrugType         = "TIPO DE DROGA"
	ColDrugQuantity     = "CANTIDAD DE DROGA"
	ColLegalCondition   = "CONDICION JURIDICA"
	ColProcessPhase     = "FASE DEL PROCESO"
	ColCourt            = "NUMERO DE TRIBUNAL"
	ColCircuit          = "CIRCUITO JUDICIAL"
	ColExtension        = "EXTENSION"
	ColCaseNumber       = "NUMERO DE EXPEDIENTE"
	ColAdmissionDate    = "FECHA DE INGRESO"
	ColDetentionDate    = "FECHA DE DETENCION"
	ColAdmissionReason  = "MOTIVO DE INGRESO"
	ColSentence         = "TIEMPO DE PENA"
	ColTimeServed       = "TIEMPO FISICO"
	ColTimeServedRed    = "TIEMPO FISICO CON REDENCIONES"
	ColRedemptions      = "REDENCIONES COMPUTADAS"
	ColRedemptionsUnc   = "REDENCIONES SIN COMPUTAR"
	ColBenefit          = "BENEFICIO AL CUAL OPTA"
	ColCompletionDate   = "FECHA DE CUMPLIMIENTO DE PENA"
	ColPctServed        = "PORCENTAJE FISICO CUMPLIDO"
	ColPctServedRed     = "PORCENTAJE CUMPLIDO CON REDENCION"
)

// dateColumns are parsed with formatting.ParseDate for typed filters.
var dateColumns = []string{
	ColAdmissionDate,
	ColDetentionDate,
	ColBirthDate,
	ColCompletionDate,
	ColStatusChanged,
	"FECHA EN BOLETA DE ENCARCELACION",
	"FECHA PSICOSOCIAL",
}

// numericColumns carry plain numbers and support numeric equality filters.
var numericColumns = []string{
	ColAge,
	ColPctServed,
	ColPctServedRed,
}

// percentColumns normalize comparison values above 1 to fractions.
var percentColumns = []string{
	ColPctServed,
	ColPctServedRed,
}

// IsDateColumn reports whether the column holds date values.
func IsDateColumn(column string) bool {
	return slices.Contains(dateColumns, column)
}

// IsNumericColumn reports whether the column holds plain numeric values.
func IsNumericColumn(column string) bool {
	return slices.Contains(numericColumns, column)
}

// IsPercentColumn reports whether the column holds completion percentages.
func IsPercentColumn(column string) bool {
	return slices.Contains(percentColumns, column)
}

// inSystemStatuses is the population considered physically inside the
// penitentiary system. Reports and statistics operate over these rows
// unless a request filters the status column explicitly.
var inSystemStatuses = []string{
	"ACTIVO",
	"HOSPITALIZADO",
	"INGRESO INTERPENAL",
	"INGRESO COMISARIA",
	"TRASLADO",
}

// InSystem reports whether a status value counts as inside the system.
func InSystem(status string) bool {
	return slices.Contains(inSystemStatuses, normalizeStatus(status))
}
