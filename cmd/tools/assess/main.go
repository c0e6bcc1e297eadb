// cmd/tools/assess/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/scoring"
	"credit-risk-workers/pkg/artifact"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) < 1 {
		help(stdout)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "score":
		return score(args[1:], stdin, stdout)
	case "check-model":
		return checkModel(args[1:], stdout)
	case "help", "-h", "--help":
		help(stdout)
		return nil
	default:
		help(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func score(args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := flag.NewFlagSet("score", flag.ContinueOnError)
	cmd.SetOutput(stdout)

	modelPath := cmd.String("model", "configs/model.json", "Path to model artifact")
	baseScore := cmd.Float64("base-score", scoring.DefaultBaseScore, "Lowest credit score")
	scaleLength := cmd.Float64("scale-length", scoring.DefaultScaleLength, "Width of the credit score scale")
	explain := cmd.Bool("explain", false, "Print per-feature contributions")
	asJSON := cmd.Bool("json", false, "Print the result as JSON")
	fromStdin := cmd.Bool("stdin", false, "Read the application as JSON from stdin instead of flags")

	app := models.CreditApplication{}
	cmd.IntVar(&app.Age, "age", 30, "Applicant age in years")
	cmd.Float64Var(&app.Income, "income", 50000, "Income")
	cmd.Float64Var(&app.LoanAmount, "loan-amount", 100000, "Requested loan amount")
	cmd.IntVar(&app.LoanTenureMonths, "tenure", 12, "Loan tenure in months")
	cmd.IntVar(&app.AvgDPDPerDelinquency, "avg-dpd", 0, "Average days past due per delinquency")
	cmd.Float64Var(&app.DelinquencyRatio, "delinquency-ratio", 30, "Delinquent months as a percentage of loan months")
	cmd.Float64Var(&app.CreditUtilizationRatio, "utilization", 30, "Credit utilization percentage")
	cmd.IntVar(&app.OpenLoanAccounts, "open-accounts", 1, "Number of open loan accounts")
	residence := cmd.String("residence", string(models.ResidenceOwned), "Residence type (Owned, Mortgage, Rented)")
	purpose := cmd.String("purpose", string(models.PurposeAuto), "Loan purpose (Auto, Home, Personal, Education)")
	loanType := cmd.String("loan-type", string(models.LoanSecured), "Loan type (Secured, Unsecured)")

	if err := cmd.Parse(args); err != nil {
		return err
	}
	app.ResidenceType = models.ResidenceType(*residence)
	app.LoanPurpose = models.LoanPurpose(*purpose)
	app.LoanType = models.LoanType(*loanType)

	if *fromStdin {
		app = models.CreditApplication{}
		if err := json.NewDecoder(stdin).Decode(&app); err != nil {
			return fmt.Errorf("decode application: %w", err)
		}
	}

	params, err := artifact.Load(*modelPath)
	if err != nil {
		return err
	}
	pipeline, err := scoring.NewPipeline(params, scoring.WithScoreMapper(scoring.ScoreMapper{
		BaseScore:   *baseScore,
		ScaleLength: *scaleLength,
	}))
	if err != nil {
		return err
	}

	res, err := pipeline.Assess(app)
	if err != nil {
		return err
	}

	var exp *scoring.Explanation
	if *explain {
		if exp, err = pipeline.Explain(app); err != nil {
			return err
		}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*models.ScoringResult
			RiskLevel      scoring.RiskLevel      `json:"riskLevel"`
			Recommendation scoring.Recommendation `json:"recommendation"`
			ModelVersion   string                 `json:"modelVersion"`
			Explanation    *scoring.Explanation   `json:"explanation,omitempty"`
		}{res, scoring.RiskLevelFor(res.DefaultProbability), scoring.Recommend(res.DefaultProbability), pipeline.ModelVersion(), exp})
	}

	fmt.Fprintf(stdout, "Model:               %s\n", pipeline.ModelVersion())
	fmt.Fprintf(stdout, "Loan to income:      %.2f\n", scoring.LoanToIncome(app.LoanAmount, app.Income))
	fmt.Fprintf(stdout, "Default probability: %.2f%% (%s risk)\n", res.DefaultProbability, scoring.RiskLevelFor(res.DefaultProbability))
	fmt.Fprintf(stdout, "Credit score:        %d\n", res.CreditScore)
	fmt.Fprintf(stdout, "Rating:              %s\n", res.Rating)
	fmt.Fprintf(stdout, "Recommendation:      %s\n", scoring.Recommend(res.DefaultProbability))

	if exp != nil {
		fmt.Fprintln(stdout)
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "feature\tvalue\tweight\tcontribution\t")
		for _, c := range exp.Contributions {
			fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t\n", c.Feature, c.Value, c.Weight, c.Contribution)
		}
		fmt.Fprintf(tw, "intercept\t\t\t%.4f\t\n", exp.Bias)
		fmt.Fprintf(tw, "decision\t\t\t%.4f\t\n", exp.Decision)
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func checkModel(args []string, stdout io.Writer) error {
	cmd := flag.NewFlagSet("check-model", flag.ContinueOnError)
	cmd.SetOutput(stdout)
	modelPath := cmd.String("model", "configs/model.json", "Path to model artifact")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	params, err := artifact.Load(*modelPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Model %s is valid: %d features, %d scaled, intercept %.4f\n",
		params.Version, len(params.Features), len(params.ScaledFeatures), params.Bias)
	return nil
}

func help(w io.Writer) {
	fmt.Fprintln(w, "Usage: assess <command> [options]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  score        Score one credit application")
	fmt.Fprintln(w, "  check-model  Validate a model artifact")
	fmt.Fprintln(w, "Run 'assess <command> -h' for command options.")
}
