package sqlinline

const QCountPlansByType = `--sql 9692054b-a42b-435d-bc38-42e5bfde3a42
select
  count(*) filter (where plan_type = 'individual'),
  count(*) filter (where plan_type = 'familiar'),
  count(*) filter (where plan_type = 'filho')
from plans
where user_id = $1::uuid;
`
