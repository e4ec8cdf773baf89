package cerr

// SemanticErrorKind enumerates every semantic error the type checker and
// symbol-table builder can raise. The set is transcribed from the original
// compiler's SemanticErrorType enum and extended with a handful of kinds the
// second type-check pass added later (INTERFACE_METHOD_NOT_IMPLEMENTED and
// friends).
type SemanticErrorKind int

const (
	ReferencedUndefinedFunction SemanticErrorKind = iota
	ReferencedUndefinedVariable
	ReferencedUndefinedStruct
	ReferencedUndefinedInterface
	FunctionAmbiguity
	StructAmbiguity
	VariableDeclaredTwice
	FunctionDeclaredTwice
	GenericTypeDeclaredTwice
	StructDeclaredTwice
	InterfaceDeclaredTwice
	EnumDeclaredTwice
	DuplicateEnumItemName
	DuplicateEnumItemValue
	DuplicateImportName
	GlobalOfTypeDyn
	GlobalOfInvalidType
	GlobalConstWithoutValue
	FunctionWithoutReturnStmt
	InvalidParamOrder
	DtorMustBeProcedure
	DtorWithParams
	OperatorWrongDataType
	UnexpectedDynTypeSA
	ReassignConstVariable
	ConditionMustBeBool
	MissingMainFunction
	FctParamIsTypeDyn
	InvalidBreakNumber
	InvalidContinueNumber
	PrintfTypeError
	PrintfArgCountError
	StdNotFound
	ImportedFileNotExisting
	CircularDependency
	MemberAccessOnlyStructs
	ScopeAccessOnlyImports
	UnknownDataType
	NumberOfFieldsNotMatching
	FieldTypeNotMatching
	ArraySizeInvalid
	ArrayIndexNotIntOrLong
	ArrayIndexOutOfBounds
	ArrayItemTypeNotMatching
	ExpectedArrayType
	SizeofDynamicSizedArray
	ReturnWithoutValueResult
	ReturnWithValueInProcedure
	DynPointersNotAllowed
	DynArraysNotAllowed
	GenericTypeNotInTemplate
	SpecifierAtIllegalContext
	InsufficientVisibility
	ExpectedGenericType
	ExpectedValue
	ExpectedType
	UnsafeOperationInSafeContext
	AssertionConditionBool
	ReservedKeyword
	InterfaceMethodNotImplemented
	MissingSelfContractorCall
	ComingSoonSA
)

var semanticErrorNames = map[SemanticErrorKind]string{
	ReferencedUndefinedFunction:    "REFERENCED_UNDEFINED_FUNCTION",
	ReferencedUndefinedVariable:    "REFERENCED_UNDEFINED_VARIABLE",
	ReferencedUndefinedStruct:      "REFERENCED_UNDEFINED_STRUCT",
	ReferencedUndefinedInterface:   "REFERENCED_UNDEFINED_INTERFACE",
	FunctionAmbiguity:              "FUNCTION_AMBIGUITY",
	StructAmbiguity:                "STRUCT_AMBIGUITY",
	VariableDeclaredTwice:          "VARIABLE_DECLARED_TWICE",
	FunctionDeclaredTwice:          "FUNCTION_DECLARED_TWICE",
	GenericTypeDeclaredTwice:       "GENERIC_TYPE_DECLARED_TWICE",
	StructDeclaredTwice:            "STRUCT_DECLARED_TWICE",
	InterfaceDeclaredTwice:         "INTERFACE_DECLARED_TWICE",
	EnumDeclaredTwice:              "ENUM_DECLARED_TWICE",
	DuplicateEnumItemName:          "DUPLICATE_ENUM_ITEM_NAME",
	DuplicateEnumItemValue:         "DUPLICATE_ENUM_ITEM_VALUE",
	DuplicateImportName:            "DUPLICATE_IMPORT_NAME",
	GlobalOfTypeDyn:                "GLOBAL_OF_TYPE_DYN",
	GlobalOfInvalidType:            "GLOBAL_OF_INVALID_TYPE",
	GlobalConstWithoutValue:        "GLOBAL_CONST_WITHOUT_VALUE",
	FunctionWithoutReturnStmt:      "FUNCTION_WITHOUT_RETURN_STMT",
	InvalidParamOrder:              "INVALID_PARAM_ORDER",
	DtorMustBeProcedure:            "DTOR_MUST_BE_PROCEDURE",
	DtorWithParams:                 "DTOR_WITH_PARAMS",
	OperatorWrongDataType:          "OPERATOR_WRONG_DATA_TYPE",
	UnexpectedDynTypeSA:            "UNEXPECTED_DYN_TYPE_SA",
	ReassignConstVariable:          "REASSIGN_CONST_VARIABLE",
	ConditionMustBeBool:            "CONDITION_MUST_BE_BOOL",
	MissingMainFunction:            "MISSING_MAIN_FUNCTION",
	FctParamIsTypeDyn:              "FCT_PARAM_IS_TYPE_DYN",
	InvalidBreakNumber:             "INVALID_BREAK_NUMBER",
	InvalidContinueNumber:          "INVALID_CONTINUE_NUMBER",
	PrintfTypeError:                "PRINTF_TYPE_ERROR",
	PrintfArgCountError:            "PRINTF_ARG_COUNT_ERROR",
	StdNotFound:                    "STD_NOT_FOUND",
	ImportedFileNotExisting:        "IMPORTED_FILE_NOT_EXISTING",
	CircularDependency:             "CIRCULAR_DEPENDENCY",
	MemberAccessOnlyStructs:        "MEMBER_ACCESS_ONLY_STRUCTS",
	ScopeAccessOnlyImports:         "SCOPE_ACCESS_ONLY_IMPORTS",
	UnknownDataType:                "UNKNOWN_DATATYPE",
	NumberOfFieldsNotMatching:      "NUMBER_OF_FIELDS_NOT_MATCHING",
	FieldTypeNotMatching:           "FIELD_TYPE_NOT_MATCHING",
	ArraySizeInvalid:               "ARRAY_SIZE_INVALID",
	ArrayIndexNotIntOrLong:         "ARRAY_INDEX_NOT_INT_OR_LONG",
	ArrayIndexOutOfBounds:          "ARRAY_INDEX_OUT_OF_BOUNDS",
	ArrayItemTypeNotMatching:       "ARRAY_ITEM_TYPE_NOT_MATCHING",
	ExpectedArrayType:              "EXPECTED_ARRAY_TYPE",
	SizeofDynamicSizedArray:        "SIZEOF_DYNAMIC_SIZED_ARRAY",
	ReturnWithoutValueResult:       "RETURN_WITHOUT_VALUE_RESULT",
	ReturnWithValueInProcedure:     "RETURN_WITH_VALUE_IN_PROCEDURE",
	DynPointersNotAllowed:          "DYN_POINTERS_NOT_ALLOWED",
	DynArraysNotAllowed:            "DYN_ARRAYS_NOT_ALLOWED",
	GenericTypeNotInTemplate:       "GENERIC_TYPE_NOT_IN_TEMPLATE",
	SpecifierAtIllegalContext:      "SPECIFIER_AT_ILLEGAL_CONTEXT",
	InsufficientVisibility:         "INSUFFICIENT_VISIBILITY",
	ExpectedGenericType:            "EXPECTED_GENERIC_TYPE",
	ExpectedValue:                  "EXPECTED_VALUE",
	ExpectedType:                   "EXPECTED_TYPE",
	UnsafeOperationInSafeContext:   "UNSAFE_OPERATION_IN_SAFE_CONTEXT",
	AssertionConditionBool:         "ASSERTION_CONDITION_BOOL",
	ReservedKeyword:                "RESERVED_KEYWORD",
	InterfaceMethodNotImplemented:  "INTERFACE_METHOD_NOT_IMPLEMENTED",
	MissingSelfContractorCall:      "MISSING_CTOR_CALL",
	ComingSoonSA:                   "COMING_SOON",
}

func (k SemanticErrorKind) String() string {
	if name, ok := semanticErrorNames[k]; ok {
		return name
	}
	return "UNKNOWN_ERROR_KIND"
}

// WarningKind enumerates the kinds a Warning can carry.
type WarningKind int

const (
	UnusedFunction WarningKind = iota
	UnusedStruct
	UnusedImport
	UnusedVariable
	VerifierDisabled
)

var warningNames = map[WarningKind]string{
	UnusedFunction:   "UNUSED_FUNCTION",
	UnusedStruct:     "UNUSED_STRUCT",
	UnusedImport:     "UNUSED_IMPORT",
	UnusedVariable:   "UNUSED_VARIABLE",
	VerifierDisabled: "VERIFIER_DISABLED",
}

func (k WarningKind) String() string {
	if name, ok := warningNames[k]; ok {
		return name
	}
	return "UNKNOWN_WARNING_KIND"
}
